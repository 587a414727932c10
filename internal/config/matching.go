package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"order-intake/internal/intake/service"
)

var ErrInvalidMatching = errors.New("invalid matching config")

// Matching holds the tunables of the ingestion pipeline. The edit-distance
// thresholds were picked empirically; keep 0.4 / 0.5 / 8 unless there is
// data showing better values.
type Matching struct {
	Thresholds       ThresholdConfig `yaml:"thresholds"`
	StaffFood        StaffFoodConfig `yaml:"staff_food"`
	SupplierDefaults SupplierConfig  `yaml:"supplier_defaults"`
}

type ThresholdConfig struct {
	Long       float64 `yaml:"long"`
	Short      float64 `yaml:"short"`
	LongMinLen int     `yaml:"long_min_len"`
}

type StaffFoodConfig struct {
	Category string `yaml:"category"`
	Supplier string `yaml:"supplier"`
}

// SupplierConfig is applied to suppliers registered on the fly.
type SupplierConfig struct {
	PaymentMethod string `yaml:"payment_method"`
	OrderType     string `yaml:"order_type"`
}

func DefaultMatching() Matching {
	th := service.DefaultThresholds()
	return Matching{
		Thresholds: ThresholdConfig{Long: th.Long, Short: th.Short, LongMinLen: th.LongMinLen},
		StaffFood: StaffFoodConfig{
			Category: service.StaffFoodCategory,
			Supplier: "Local Market",
		},
		SupplierDefaults: SupplierConfig{PaymentMethod: "Cash", OrderType: "Delivery"},
	}
}

// LoadMatching returns the defaults overlaid with the YAML file at path.
// An empty path means defaults only.
func LoadMatching(path string) (Matching, error) {
	m := DefaultMatching()
	if path == "" {
		return m, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Matching{}, fmt.Errorf("read matching config: %w", err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Matching{}, fmt.Errorf("parse matching config %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Matching{}, err
	}
	return m, nil
}

func (m Matching) Validate() error {
	t := m.Thresholds
	if t.Long <= 0 || t.Long >= 1 || t.Short <= 0 || t.Short >= 1 {
		return fmt.Errorf("%w: thresholds must be in (0,1), got long=%v short=%v", ErrInvalidMatching, t.Long, t.Short)
	}
	if t.LongMinLen <= 0 {
		return fmt.Errorf("%w: long_min_len must be positive", ErrInvalidMatching)
	}
	if m.StaffFood.Category == "" {
		return fmt.Errorf("%w: staff_food.category is empty", ErrInvalidMatching)
	}
	return nil
}

func (m Matching) ServiceThresholds() service.Thresholds {
	return service.Thresholds{
		Long:       m.Thresholds.Long,
		Short:      m.Thresholds.Short,
		LongMinLen: m.Thresholds.LongMinLen,
	}
}

func (m Matching) ServiceStaffFood() service.StaffFood {
	return service.StaffFood{Category: m.StaffFood.Category, Supplier: m.StaffFood.Supplier}
}
