package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.File != "" {
		if cfg.Log.MaxSizeMB == 0 {
			cfg.Log.MaxSizeMB = 100
		}
		if cfg.Log.MaxBackups == 0 {
			cfg.Log.MaxBackups = 3
		}
		if cfg.Log.MaxAgeDays == 0 {
			cfg.Log.MaxAgeDays = 28
		}
	}
	if cfg.Input.Path == "" {
		cfg.Input.Path = "kmeans-data.txt"
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "kmeans-output.txt"
	}
	if cfg.Clustering.MaxIterations == 0 {
		cfg.Clustering.MaxIterations = 100
	}
	if cfg.Clustering.Tolerance == 0 {
		cfg.Clustering.Tolerance = 1e-4
	}
	if cfg.Clustering.K == 0 && len(cfg.Clustering.Centroids) > 0 {
		cfg.Clustering.K = len(cfg.Clustering.Centroids)
	}
	if cfg.Plot.Title == "" {
		cfg.Plot.Title = "K-Means Clustering Results"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".csv", ".tsv", ".xlsx"}
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
}
