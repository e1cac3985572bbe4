// FILE: config.go
// Package main – Runtime configuration model and loader.
//
// One file configures a run; its format follows the extension:
//   .toml        → pelletier/go-toml/v2
//   .yaml/.yml   → gopkg.in/yaml.v3
//
// Sections: [strategy] [calendar] [fees] [log] [data] [output]. Strategy
// durations are whole seconds in the file. Missing keys keep the defaults of
// defaultFileConfig; GAP_* environment keys override file values.
//
// Typical flow (see main.go):
//   loadDotEnv("")
//   cfg, err := loadConfig(path)

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var configLog = logrus.WithField("component", "config")

// ErrInvalidConfig marks a configuration rejected by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// FileConfig mirrors the on-disk layout.
type FileConfig struct {
	Strategy StrategySection `toml:"strategy" yaml:"strategy"`
	Calendar CalendarSection `toml:"calendar" yaml:"calendar"`
	Fees     FeeSection      `toml:"fees" yaml:"fees"`
	Log      LogConfig       `toml:"log" yaml:"log"`
	Data     DataConfig      `toml:"data" yaml:"data"`
	Output   OutputConfig    `toml:"output" yaml:"output"`
}

type StrategySection struct {
	BuyPoint        float64 `toml:"buy_point" yaml:"buy_point"`
	GapWindow       int64   `toml:"gap_window" yaml:"gap_window"`
	BuyVolume       uint64  `toml:"buy_volume" yaml:"buy_volume"`
	BuyCooldownTime int64   `toml:"buy_cooldown_time" yaml:"buy_cooldown_time"`
	SellDelayTime   int64   `toml:"sell_delay_time" yaml:"sell_delay_time"`
	SellAllDelay    int64   `toml:"sell_all_delay" yaml:"sell_all_delay"`
}

type SessionSpec struct {
	Start string `toml:"start" yaml:"start"`
	End   string `toml:"end" yaml:"end"`
}

type CalendarSection struct {
	Sessions []SessionSpec `toml:"sessions" yaml:"sessions"`
}

type FeeSection struct {
	TaxPerMille              uint64 `toml:"tax_per_mille" yaml:"tax_per_mille"`
	CommissionPerTenThousand uint64 `toml:"commission_per_ten_thousand" yaml:"commission_per_ten_thousand"`
	CommissionFloor          uint64 `toml:"commission_floor" yaml:"commission_floor"`
}

// DataConfig locates and interprets the input files.
type DataConfig struct {
	TickData       string `toml:"tick_data" yaml:"tick_data"`
	TransData      string `toml:"trans_data" yaml:"trans_data"`
	TradeDate      string `toml:"trade_date" yaml:"trade_date"` // YYYY-MM-DD stamped on nTime
	UTCOffsetHours int    `toml:"utc_offset_hours" yaml:"utc_offset_hours"`
	PriceScale     int64  `toml:"price_scale" yaml:"price_scale"` // minor units per display unit
}

// OutputConfig selects the run's artifacts.
type OutputConfig struct {
	LedgerDB    string `toml:"ledger_db" yaml:"ledger_db"`
	MetricsFile string `toml:"metrics_file" yaml:"metrics_file"`
	MetricsAddr string `toml:"metrics_addr" yaml:"metrics_addr"`
}

// Config is the validated, typed configuration of a run.
type Config struct {
	Strategy StrategyConfig
	Calendar Calendar
	Fees     FeeSchedule
	Log      LogConfig
	Data     DataConfig
	Output   OutputConfig
}

const defaultTradeDate = "2000-01-03"

func defaultFileConfig() FileConfig {
	fees := DefaultFees()
	return FileConfig{
		Strategy: StrategySection{
			BuyPoint:        0.02,
			GapWindow:       600,
			BuyVolume:       1000,
			BuyCooldownTime: 300,
			SellDelayTime:   60,
			SellAllDelay:    120,
		},
		Calendar: CalendarSection{Sessions: []SessionSpec{
			{Start: "09:30:00", End: "11:30:00"},
			{Start: "13:00:00", End: "15:00:00"},
		}},
		Fees: FeeSection{
			TaxPerMille:              fees.TaxPerMille,
			CommissionPerTenThousand: fees.CommissionPerTenThousand,
			CommissionFloor:          fees.CommissionFloor,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Data: DataConfig{
			TradeDate:      defaultTradeDate,
			UTCOffsetHours: 8,
			PriceScale:     10000,
		},
	}
}

// loadConfig reads path (may be empty for defaults + env), applies GAP_*
// overrides and validates the result.
func loadConfig(path string) (Config, error) {
	fc := defaultFileConfig()
	if path != "" {
		if err := decodeConfigFile(path, &fc); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&fc)
	cfg, err := fc.build()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeConfigFile(path string, fc *FileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	// decoders may append to a non-empty slice; sessions from the file replace the defaults
	defaults := fc.Calendar.Sessions
	fc.Calendar.Sessions = nil
	defer func() {
		if len(fc.Calendar.Sessions) == 0 {
			fc.Calendar.Sessions = defaults
		}
	}()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, fc); err != nil {
			return errors.Wrapf(err, "parse TOML %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return errors.Wrapf(err, "parse YAML %s", path)
		}
	default:
		return errors.Errorf("unsupported config format %q (want .toml, .yaml, .yml)", ext)
	}
	return nil
}

// applyEnv lets GAP_* keys override the file.
func applyEnv(fc *FileConfig) {
	s := &fc.Strategy
	s.BuyPoint = getEnvFloat("GAP_BUY_POINT", s.BuyPoint)
	s.GapWindow = getEnvInt64("GAP_WINDOW_SEC", s.GapWindow)
	s.BuyVolume = getEnvUint64("GAP_BUY_VOLUME", s.BuyVolume)
	s.BuyCooldownTime = getEnvInt64("GAP_BUY_COOLDOWN_SEC", s.BuyCooldownTime)
	s.SellDelayTime = getEnvInt64("GAP_SELL_DELAY_SEC", s.SellDelayTime)
	s.SellAllDelay = getEnvInt64("GAP_SELL_ALL_DELAY_SEC", s.SellAllDelay)

	fc.Log.Level = getEnv("GAP_LOG_LEVEL", fc.Log.Level)
	fc.Log.File = getEnv("GAP_LOG_FILE", fc.Log.File)
	fc.Log.Compress = getEnvBool("GAP_LOG_COMPRESS", fc.Log.Compress)

	fc.Data.TickData = getEnv("GAP_TICK_DATA", fc.Data.TickData)
	fc.Data.TransData = getEnv("GAP_TRANS_DATA", fc.Data.TransData)
	fc.Data.TradeDate = getEnv("GAP_TRADE_DATE", fc.Data.TradeDate)

	fc.Output.LedgerDB = getEnv("GAP_LEDGER_DB", fc.Output.LedgerDB)
	fc.Output.MetricsFile = getEnv("GAP_METRICS_FILE", fc.Output.MetricsFile)
	fc.Output.MetricsAddr = getEnv("GAP_METRICS_ADDR", fc.Output.MetricsAddr)
}

func (fc FileConfig) build() (Config, error) {
	s := fc.Strategy
	cfg := Config{
		Strategy: StrategyConfig{
			BuyPoint:     s.BuyPoint,
			GapWindow:    time.Duration(s.GapWindow) * time.Second,
			BuyVolume:    s.BuyVolume,
			BuyCooldown:  time.Duration(s.BuyCooldownTime) * time.Second,
			SellDelay:    time.Duration(s.SellDelayTime) * time.Second,
			SellAllDelay: time.Duration(s.SellAllDelay) * time.Second,
		},
		Fees: FeeSchedule{
			TaxPerMille:              fc.Fees.TaxPerMille,
			CommissionPerTenThousand: fc.Fees.CommissionPerTenThousand,
			CommissionFloor:          fc.Fees.CommissionFloor,
		},
		Log:    fc.Log,
		Data:   fc.Data,
		Output: fc.Output,
	}
	for i, spec := range fc.Calendar.Sessions {
		start, err := ParseClock(spec.Start)
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidConfig, "session %d start: %v", i, err)
		}
		end, err := ParseClock(spec.End)
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidConfig, "session %d end: %v", i, err)
		}
		cfg.Calendar.Sessions = append(cfg.Calendar.Sessions, Session{Start: start, End: end})
	}
	return cfg, nil
}

// Validate rejects knobs the engine cannot run with.
func (c Config) Validate() error {
	s := c.Strategy
	switch {
	case s.BuyVolume == 0:
		return errors.Wrap(ErrInvalidConfig, "buy_volume must be > 0")
	case s.BuyPoint < 0:
		return errors.Wrap(ErrInvalidConfig, "buy_point must be >= 0")
	case s.GapWindow <= 0:
		return errors.Wrap(ErrInvalidConfig, "gap_window must be > 0")
	case s.BuyCooldown < 0, s.SellDelay < 0, s.SellAllDelay < 0:
		return errors.Wrap(ErrInvalidConfig, "delays must be >= 0")
	case len(c.Calendar.Sessions) == 0:
		return errors.Wrap(ErrInvalidConfig, "at least one trading session is required")
	case c.Data.PriceScale <= 0:
		return errors.Wrap(ErrInvalidConfig, "price_scale must be > 0")
	}
	for i, sess := range c.Calendar.Sessions {
		if sess.End < sess.Start {
			return errors.Wrapf(ErrInvalidConfig, "session %d ends (%s) before it starts (%s)", i, sess.End, sess.Start)
		}
	}
	if _, err := c.Data.tradeDay(); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "trade_date: %v", err)
	}
	return nil
}

// location is the exchange's fixed UTC offset.
func (d DataConfig) location() *time.Location {
	return time.FixedZone("exchange", d.UTCOffsetHours*3600)
}

// tradeDay returns midnight of the trade date in the exchange zone.
func (d DataConfig) tradeDay() (time.Time, error) {
	date := d.TradeDate
	if date == "" {
		date = defaultTradeDate
	}
	return time.ParseInLocation(time.DateOnly, date, d.location())
}
