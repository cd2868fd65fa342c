package config

import (
	"time"

	"atscan/internal/ats"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Analysis pipeline defaults mirror the pipeline's own documented
	// constants.
	def := ats.DefaultConfig()
	v.SetDefault("analysis.neutralKeywordScore", def.NeutralKeywordScore)
	v.SetDefault("analysis.neutralSkillsScore", def.NeutralSkillsScore)
	v.SetDefault("analysis.degradedScore", def.DegradedScore)
	v.SetDefault("analysis.keywordFrequencyCeiling", def.KeywordFrequencyCeiling)
	v.SetDefault("analysis.maxJobKeywords", def.MaxJobKeywords)
	v.SetDefault("analysis.minHeadings", def.MinHeadings)
	v.SetDefault("analysis.minWordCount", def.MinWordCount)
	v.SetDefault("analysis.maxWordCount", def.MaxWordCount)
	v.SetDefault("analysis.maxJobDescriptionLen", def.MaxJobDescriptionLen)
	v.SetDefault("analysis.experienceOrderingWeight", def.ExperienceOrderingWeight)
	v.SetDefault("analysis.experienceVerbWeight", def.ExperienceVerbWeight)
	v.SetDefault("analysis.experienceQuantifiedWeight", def.ExperienceQuantifiedWeight)
	v.SetDefault("analysis.dictionaryFile", "")

	// Storage Configuration
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.maxConns", 4)
	v.SetDefault("storage.connectTimeout", 5*time.Second)
	v.SetDefault("storage.queryTimeout", 3*time.Second)
	v.SetDefault("storage.circuitBreaker.enabled", true)
	v.SetDefault("storage.circuitBreaker.maxRequests", 3)
	v.SetDefault("storage.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("storage.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("storage.circuitBreaker.minRequests", 3)
	v.SetDefault("storage.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")           // TLS 1.2 minimum
	v.SetDefault("server.tls.cipherSuites", []string{})    // Use Go defaults
	v.SetDefault("server.tls.clientAuthPolicy", "require") // require, request, verify
	v.SetDefault("server.tls.insecureSkipVerify", false)
	v.SetDefault("server.tls.serverName", "")

	// Auto-reload configuration defaults
	v.SetDefault("server.tls.autoReload.enabled", true)
	v.SetDefault("server.tls.autoReload.checkInterval", 30*time.Second)
	v.SetDefault("server.tls.autoReload.preemptiveRenewal", 72*time.Hour)
	v.SetDefault("server.tls.autoReload.maxRetries", 3)
	v.SetDefault("server.tls.autoReload.retryDelay", 10*time.Second)

	// File watcher defaults
	v.SetDefault("server.tls.autoReload.fileWatcher.enabled", true)
	v.SetDefault("server.tls.autoReload.fileWatcher.debounceDelay", time.Second)

	// Vault watcher defaults
	v.SetDefault("server.tls.autoReload.vaultWatcher.enabled", false)
	v.SetDefault("server.tls.autoReload.vaultWatcher.pollInterval", 5*time.Minute)
	v.SetDefault("server.tls.autoReload.vaultWatcher.autoRenew", true)
	v.SetDefault("server.tls.autoReload.vaultWatcher.renewThreshold", 24*time.Hour)
	v.SetDefault("server.tls.autoReload.vaultWatcher.secretPath", "")
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB upload ceiling
	v.SetDefault("app.allowedFileTypes", []string{".pdf", ".docx", ".txt"})

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.databaseDSN", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "atscan")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.analyses.enabled", true)
	v.SetDefault("observability.customMetrics.analyses.trackDuration", true)
	v.SetDefault("observability.customMetrics.analyses.trackScores", true)
	v.SetDefault("observability.customMetrics.analyses.trackDegraded", true)
	v.SetDefault("observability.customMetrics.analyses.trackWordCount", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCertExpiry", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackStorage", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.storageCheckTimeout", 5*time.Second)
}
