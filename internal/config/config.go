package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dqaudit/internal/quality"
	"github.com/KaramelBytes/dqaudit/internal/report"
	"github.com/KaramelBytes/dqaudit/internal/schema"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Columns binds each semantic field to a 1-based column position.
type Columns struct {
	CustomerType int `mapstructure:"customer_type" yaml:"customer_type" validate:"min=1"`
	CustomerName int `mapstructure:"customer_name" yaml:"customer_name" validate:"min=1"`
	NationalID   int `mapstructure:"national_id" yaml:"national_id" validate:"min=1"`
	PolicyType   int `mapstructure:"policy_type" yaml:"policy_type" validate:"min=1"`
	PolicyNumber int `mapstructure:"policy_number" yaml:"policy_number" validate:"min=1"`
	StartDate    int `mapstructure:"start_date" yaml:"start_date" validate:"min=1"`
	EndDate      int `mapstructure:"end_date" yaml:"end_date" validate:"min=1"`
	Premium      int `mapstructure:"premium" yaml:"premium" validate:"min=1"`
	Salesperson  int `mapstructure:"salesperson" yaml:"salesperson" validate:"min=1"`
	Commission   int `mapstructure:"commission" yaml:"commission" validate:"min=1"`
	Company      int `mapstructure:"company" yaml:"company" validate:"min=1"`
}

// Global configuration structure.
type Global struct {
	Schema     Columns `mapstructure:"schema" yaml:"schema"`
	Sentinel   string  `mapstructure:"sentinel" yaml:"sentinel" validate:"required,notblank"`
	SampleSize int     `mapstructure:"sample_size" yaml:"sample_size" validate:"min=1,max=1000"`
	SheetName  string  `mapstructure:"sheet_name" yaml:"sheet_name"`
	// SheetIndex is 1-based; 0 selects the workbook's active sheet.
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index" validate:"min=0"`
	Format     string `mapstructure:"format" yaml:"format" validate:"oneof=text markdown json yaml"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Concurrent bool   `mapstructure:"concurrent" yaml:"concurrent"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks field ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Bindings returns the column positions keyed by semantic field.
func (c Columns) Bindings() map[schema.Field]int {
	return map[schema.Field]int{
		schema.CustomerType: c.CustomerType,
		schema.CustomerName: c.CustomerName,
		schema.NationalID:   c.NationalID,
		schema.PolicyType:   c.PolicyType,
		schema.PolicyNumber: c.PolicyNumber,
		schema.StartDate:    c.StartDate,
		schema.EndDate:      c.EndDate,
		schema.Premium:      c.Premium,
		schema.Salesperson:  c.Salesperson,
		schema.Commission:   c.Commission,
		schema.Company:      c.Company,
	}
}

// Set updates the column for a field by its name.
func (c *Columns) Set(field string, pos int) error {
	switch schema.Field(field) {
	case schema.CustomerType:
		c.CustomerType = pos
	case schema.CustomerName:
		c.CustomerName = pos
	case schema.NationalID:
		c.NationalID = pos
	case schema.PolicyType:
		c.PolicyType = pos
	case schema.PolicyNumber:
		c.PolicyNumber = pos
	case schema.StartDate:
		c.StartDate = pos
	case schema.EndDate:
		c.EndDate = pos
	case schema.Premium:
		c.Premium = pos
	case schema.Salesperson:
		c.Salesperson = pos
	case schema.Commission:
		c.Commission = pos
	case schema.Company:
		c.Company = pos
	default:
		return &schema.UnknownFieldError{Field: schema.Field(field)}
	}
	return nil
}

// ColumnSchema builds the immutable schema from the configured columns.
func (c *Global) ColumnSchema() (*schema.Schema, error) {
	return schema.New(c.Schema.Bindings())
}

// Dir returns ~/.dqaudit.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dqaudit"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dqaudit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	for f, p := range schema.DefaultPositions() {
		v.SetDefault("schema."+string(f), p)
	}
	v.SetDefault("sentinel", quality.DefaultSentinel)
	v.SetDefault("sample_size", report.DefaultSampleSize)
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 0)
	v.SetDefault("format", report.FormatText)
	v.SetDefault("log_level", "info")
	v.SetDefault("concurrent", false)
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DQAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
