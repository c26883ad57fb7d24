package config

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, dataDir string) *Repository {
	return &Repository{
		backend: backend,
		dataDir: dataDir,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format string, stacktrace bool) *Logger {
	return &Logger{
		level:      level,
		format:     format,
		stacktrace: stacktrace,
	}
}

// NewArchiveForTest creates an Archive config for testing purposes
func NewArchiveForTest(dir, gcsBucket string) *Archive {
	return &Archive{
		dir:       dir,
		gcsBucket: gcsBucket,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
	}
}
