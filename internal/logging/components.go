package logging

// Component names used to tag structured log lines.
const (
	ComponentStartup  = "startup"
	ComponentCodec    = "codec"
	ComponentPipeline = "pipeline"
	ComponentServer   = "server"
	ComponentConvert  = "convert"
)
