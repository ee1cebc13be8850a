package domain

const (
	// DefaultPipelineName names pipelines whose root component is unnamed.
	DefaultPipelineName = "pipeline"

	// StdoutPath is the output path that selects standard output.
	StdoutPath = "-"

	// S3Scheme prefixes output paths that are uploaded to S3.
	S3Scheme = "s3://"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
