package towerload

import (
	"github.com/jonboulle/clockwork"
	"github.com/ukaji3/towerload-go/internal/obs"
	"github.com/ukaji3/towerload-go/pkg/towerload/cache"
	"github.com/ukaji3/towerload-go/pkg/towerload/parser"
	"go.uber.org/zap"
)

// CacheBackend selects where reference loads are cached.
type CacheBackend string

const (
	// CacheJSON keeps one JSON file per reference in a directory.
	CacheJSON CacheBackend = "json"
	// CacheSQLite keeps every reference in one SQLite database.
	CacheSQLite CacheBackend = "sqlite"
	// CacheNone recomputes reference loads on every run.
	CacheNone CacheBackend = "none"
)

// CacheOptions configures the reference-load cache.
type CacheOptions struct {
	Backend CacheBackend `yaml:"backend"`
	// Dir is the directory of the JSON backend.
	Dir string `yaml:"dir"`
	// DB is the database file of the SQLite backend.
	DB string `yaml:"db"`
}

// OutputOptions selects the report renderings. Empty paths are skipped.
type OutputOptions struct {
	JSON   string `yaml:"json"`
	PNG    string `yaml:"png"`
	XLSX   string `yaml:"xlsx"`
	Text   bool   `yaml:"text"`
	Pretty bool   `yaml:"pretty"`
}

// LogOptions configures the logger built by the CLI.
type LogOptions struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Options configures a screening run.
type Options struct {
	// Wind is the custom site wind-resource workbook.
	Wind string `yaml:"wind"`
	// References lists reference design workbooks.
	References []string `yaml:"references"`
	// ReferenceDirs lists directories whose .xlsx and .xls workbooks are
	// reference designs, appended after References in directory order.
	ReferenceDirs []string `yaml:"reference_dirs"`
	// ULDir and FLDir hold the ultimate and fatigue regressor files.
	ULDir string `yaml:"ul_dir"`
	FLDir string `yaml:"fl_dir"`

	Parse       parser.ParseOptions `yaml:"parse"`
	Cache       CacheOptions        `yaml:"cache"`
	Output      OutputOptions       `yaml:"output"`
	Log         LogOptions          `yaml:"log"`
	MetricsFile string              `yaml:"metrics_file"`

	// Logger, Metrics, Clock and Store override the defaults built from the
	// fields above.
	Logger  *zap.Logger     `yaml:"-"`
	Metrics *obs.Metrics    `yaml:"-"`
	Clock   clockwork.Clock `yaml:"-"`
	Store   cache.Store     `yaml:"-"`
}

// DefaultOptions returns default run options.
func DefaultOptions() Options {
	return Options{
		Parse: parser.DefaultParseOptions(),
		Cache: CacheOptions{
			Backend: CacheJSON,
			Dir:     "Loads",
			DB:      "towerload-cache.db",
		},
		Log: LogOptions{
			Level:  "info",
			Format: "console",
		},
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) clock() clockwork.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return clockwork.NewRealClock()
}
