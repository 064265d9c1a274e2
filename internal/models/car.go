package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// CarType 车型分类
type CarType string

const (
	CarTypeSedan CarType = "SEDAN"
	CarTypeSUV   CarType = "SUV"
	CarTypeWagon CarType = "WAGON"
)

const (
	// MaxNameLength 品牌/车型名称最大长度（字符数）
	MaxNameLength = 20
	// MinModelYear 车型年份下限
	MinModelYear = 2015
)

var (
	ErrNameTooLong    = errors.New("name too long")
	ErrInvalidCarType = errors.New("invalid car type")
	ErrYearOutOfRange = errors.New("year out of range")
	ErrMissingCarMake = errors.New("car model has no car make")
	ErrEmptyName      = errors.New("name is empty")
)

// Valid 检查车型分类是否合法
func (t CarType) Valid() bool {
	switch t {
	case CarTypeSedan, CarTypeSUV, CarTypeWagon:
		return true
	}
	return false
}

// MaxModelYear 车型年份上限为当前年份
func MaxModelYear() int {
	return time.Now().Year()
}

// CarMake 汽车品牌
type CarMake struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Validate 校验品牌字段
func (m *CarMake) Validate() error {
	return validateName(m.Name)
}

// CarModel 汽车车型，隶属于一个品牌
type CarModel struct {
	ID        int64     `json:"id" db:"id"`
	CarMakeID int64     `json:"car_make_id" db:"car_make_id"`
	Name      string    `json:"name" db:"name"`
	Type      CarType   `json:"type" db:"type"`
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ApplyDefaults 填充默认值：类型 SUV，年份为当前年
func (m *CarModel) ApplyDefaults() {
	if m.Type == "" {
		m.Type = CarTypeSUV
	}
	if m.Year == 0 {
		m.Year = MaxModelYear()
	}
}

// Validate 校验车型字段
func (m *CarModel) Validate() error {
	if m.CarMakeID <= 0 {
		return ErrMissingCarMake
	}
	if err := validateName(m.Name); err != nil {
		return err
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCarType, m.Type)
	}
	if m.Year < MinModelYear || m.Year > MaxModelYear() {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, m.Year, MinModelYear, MaxModelYear())
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrNameTooLong, name, MaxNameLength)
	}
	return nil
}

// CarCatalogEntry 车型目录条目（车型名 + 品牌名）
type CarCatalogEntry struct {
	CarModel string `json:"CarModel"`
	CarMake  string `json:"CarMake"`
}

// CatalogSeed 初始化目录用的品牌及其车型
type CatalogSeed struct {
	Make   CarMake
	Models []CarModel
}
