package spec

type KafkaSink struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	RequiredAcks int16    `yaml:"required_acks"` // 0,1,-1
}

type StdoutSink struct {
	Pretty        bool `yaml:"pretty"`
	ValueMaxBytes int  `yaml:"value_max_bytes"` // 0 = no truncation
}

type sinkConfigs struct {
	Kafka  KafkaSink  `yaml:"kafka"`
	Stdout StdoutSink `yaml:"stdout"`
}

type workerSection struct {
	// Per-request conversion timeout; 0 disables it.
	TimeoutMS int `yaml:"timeout_ms"`
}

// File is a worker pipeline: one request source, a conversion stage and
// one or more reply sinks.
type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`
		Driver string `yaml:"driver"`
		Config string `yaml:"config"`
	} `yaml:"source"`

	Sinks       []string      `yaml:"sinks"`
	SinkConfigs sinkConfigs   `yaml:"sink_configs"`
	Worker      workerSection `yaml:"worker"`
}
