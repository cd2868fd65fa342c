package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"atscan/internal/errors"
	"atscan/internal/observability"
	"atscan/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// statusForError maps application error codes to HTTP status codes
func statusForError(err error) (int, string) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError, ""
	}

	switch appErr.Code {
	case errors.ErrCodeEmptyDocument, errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest, appErr.Code
	case errors.ErrCodeNotAResume:
		return http.StatusUnprocessableEntity, appErr.Code
	case errors.ErrCodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType, appErr.Code
	case errors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge, appErr.Code
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, appErr.Code
	case errors.ErrCodeStorageUnavailable:
		return http.StatusServiceUnavailable, appErr.Code
	default:
		return http.StatusInternalServerError, appErr.Code
	}
}

// degradedStageCount counts stages that fell back to neutral scores
func degradedStageCount(result *types.AnalysisResult) int {
	n := 0
	for _, issue := range result.Issues {
		if issue.Title == "Partial analysis" {
			n++
		}
	}
	return n
}

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscan.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		if len(req.ResumeText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalyzeResumeInput{
			ResumeText:     req.ResumeText,
			JobTitle:       req.JobTitle,
			JobDescription: req.JobDescription,
		}

		s.runAnalysis(ctx, w, om, span, "analyze", input, "")
	}
}

// createUploadHandler analyzes a resume submitted as a multipart file upload
func (s *Server) createUploadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscan.api")
		ctx, span := tracer.Start(ctx, "api.analyze_upload")
		defer span.End()

		if err := r.ParseMultipartForm(s.AppConfig.App.MaxFileSize); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid multipart request", err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume file", "multipart field 'resume' is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.Warn("Failed to close uploaded file", "error", err)
			}
		}()

		data, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to read uploaded file", err.Error(), http.StatusBadRequest)
			return
		}

		resumeText, err := s.Extractor.FromBytes(header.Filename, data)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "extraction"))
			status, code := statusForError(err)
			writeErrorResponseCode(w, "Failed to extract resume text", err.Error(), code, status)
			return
		}

		span.SetAttributes(
			attribute.String("upload.filename", header.Filename),
			attribute.Int64("upload.size_bytes", header.Size),
			attribute.String("operation", "analyze_upload"),
		)

		input := types.AnalyzeResumeInput{
			ResumeText:     resumeText,
			JobTitle:       r.FormValue("jobTitle"),
			JobDescription: r.FormValue("jobDescription"),
		}

		s.runAnalysis(ctx, w, om, span, "analyze_upload", input, header.Filename)
	}
}

// runAnalysis executes the shared analyze flow: run the pipeline under
// metrics tracking, persist the result when storage is configured, and
// write the JSON response.
func (s *Server) runAnalysis(ctx context.Context, w http.ResponseWriter, om *observability.ObservabilityManager, span oteltrace.Span, operation string, input types.AnalyzeResumeInput, fileName string) {
	metrics := om.GetMetrics()

	var result *types.AnalysisResult
	err := metrics.TrackAnalysis(ctx, operation, func(ctx context.Context) *observability.AnalysisOutcome {
		output, analyzeErr := s.Analyzer.Analyze(ctx, input)
		result = output
		outcome := &observability.AnalysisOutcome{Error: analyzeErr}
		if output != nil {
			outcome.HasResult = true
			outcome.OverallScore = output.OverallScore
			outcome.DegradedStages = degradedStageCount(output)
			outcome.WordCount = output.WordCount
		}
		return outcome
	}, om)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "analysis"))
		status, code := statusForError(err)
		writeErrorResponseCode(w, "Failed to analyze resume", err.Error(), code, status)
		return
	}

	// Persist best effort: a storage failure must not fail the analysis
	if s.Store != nil {
		stored, saveErr := s.Store.Save(ctx, types.StoredAnalysis{
			FileName:       fileName,
			JobTitle:       input.JobTitle,
			JobDescription: input.JobDescription,
			Result:         *result,
		})
		metrics.RecordBusinessMetric(ctx, "analysis_stored", saveErr == nil, om)
		if saveErr != nil {
			s.Logger.LogError(saveErr, "Failed to persist analysis result")
		} else {
			w.Header().Set("X-Analysis-Id", stored.ID.String())
			span.SetAttributes(attribute.String("analysis.id", stored.ID.String()))
		}
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("analysis.overall_score", result.OverallScore),
		attribute.Int("analysis.issue_count", len(result.Issues)),
	)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createKeywordsHandler wraps the keyword-only analysis handler
func (s *Server) createKeywordsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscan.api")
		ctx, span := tracer.Start(ctx, "api.keywords")
		defer span.End()

		var req KeywordRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "keywords"),
		)

		input := types.KeywordAnalysisInput{
			ResumeText:     req.ResumeText,
			JobDescription: req.JobDescription,
		}

		metrics := om.GetMetrics()
		result, err := s.Analyzer.AnalyzeKeywords(ctx, input)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "keyword_analysis", false, om)
			status, code := statusForError(err)
			writeErrorResponseCode(w, "Failed to analyze keywords", err.Error(), code, status)
			return
		}

		metrics.RecordBusinessMetric(ctx, "keyword_analysis", true, om,
			attribute.Int("keyword_match", result.KeywordMatch),
			attribute.Int("total_keywords", result.TotalKeywords))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("keyword_match", result.KeywordMatch),
			attribute.Int("total_keywords", result.TotalKeywords),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
