package errors

// Config errors

func ConfigNotFound(path string) *BuilderError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *BuilderError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration could not be parsed").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuilderError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func UnknownTarget(name string) *BuilderError {
	return New(CategoryValidation, SeverityFatal, "unknown build target").
		WithContext("target", name)
}

// External tool errors

func AutogenFailed(step string, cause error) *BuilderError {
	return Wrap(cause, CategoryAutogen, SeverityFatal, "autogeneration failed").
		WithContext("step", step)
}

func SphinxFailed(builder string, cause error) *BuilderError {
	return Wrap(cause, CategorySphinx, SeverityFatal, "sphinx-build failed").
		WithContext("builder", builder)
}

func PostBuildFailed(target string, cause error) *BuilderError {
	return Wrap(cause, CategoryPostBuild, SeverityFatal, "post-build step failed").
		WithContext("target", target)
}

// Filesystem errors

func FileSystemError(operation, path string, cause error) *BuilderError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Runtime errors

func Canceled(cause error) *BuilderError {
	return Wrap(cause, CategoryRuntime, SeverityError, "build canceled")
}

func InternalError(message string, cause error) *BuilderError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
