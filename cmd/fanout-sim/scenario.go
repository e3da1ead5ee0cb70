package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// scenario descreve a população simulada e a fonte de dano.
type scenario struct {
	InitialPopulation int           `yaml:"initial_population"`
	SpawnPerSecond    float64       `yaml:"spawn_per_second"`
	Lifetime          time.Duration `yaml:"lifetime"`
	DamagePerSecond   float64       `yaml:"damage_per_second"`
	MaxDamage         float64       `yaml:"max_damage"`
	LethalDamage      float64       `yaml:"lethal_damage"`
	Seed              int64         `yaml:"seed"`
}

func defaultScenario() scenario {
	return scenario{
		InitialPopulation: 200,
		SpawnPerSecond:    40,
		Lifetime:          10 * time.Second,
		DamagePerSecond:   100,
		MaxDamage:         120,
		LethalDamage:      100,
		Seed:              1,
	}
}

// loadScenario lê o arquivo YAML por cima dos valores padrão. path vazio usa só o padrão.
func loadScenario(path string) (scenario, error) {
	sc := defaultScenario()
	if path == "" {
		return sc, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

func (s scenario) validate() error {
	if s.InitialPopulation < 0 {
		return errors.New("initial_population must be >= 0")
	}
	if s.SpawnPerSecond < 0 || s.DamagePerSecond < 0 {
		return errors.New("rates must be >= 0")
	}
	if s.Lifetime <= 0 {
		return errors.New("lifetime must be > 0")
	}
	if s.MaxDamage <= 0 {
		return errors.New("max_damage must be > 0")
	}
	return nil
}
