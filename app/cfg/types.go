package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Ingestion tuning
	ProbeTimeout         int // seconds
	PageTimeout          int // seconds
	SummarizerTimeout    int // seconds
	ClassifierTimeout    int // seconds
	TitleDedupeThreshold float64
	TitleDedupeWindow    int
	MaxCandidates        int

	// Derived-field generation
	GeminiAPIKey string
	GeminiModel  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
