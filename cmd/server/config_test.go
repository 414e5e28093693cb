package main

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	var config Config

	t.Setenv("BADGER_FILEPATH", t.TempDir())
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal(15*time.Second, config.SweepInterval)
	req.Equal(10*time.Second, config.StaleThreshold)
	req.False(config.SweepBatch)
	req.Equal(8080, config.Port)
	location, err := config.Location()
	req.NoError(err)
	req.Equal(time.Local, location)
	req.NoError(config.Validate())
}

func TestConfig_CharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := Config{CharacterReplacement: "#"}.CharacterRune()
	req.NoError(err)
	req.Equal('#', r)

	_, err = Config{CharacterReplacement: "##"}.CharacterRune()
	req.Error(err)
}

func TestConfig_Words(t *testing.T) {
	req := require.New(t)

	req.Equal([]string{"bobo", "tonto"}, Config{CensoredWords: " bobo, ,tonto,"}.Words())
	req.Empty(Config{}.Words())
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)

	err := Config{SweepInterval: 0, StaleThreshold: time.Second, MetricInterval: time.Second}.Validate()
	req.Error(err)
}

func TestConfig_Location(t *testing.T) {
	req := require.New(t)

	location, err := Config{TimeZone: "UTC"}.Location()
	req.NoError(err)
	req.Equal(time.UTC, location)

	location, err = Config{TimeZone: "America/Sao_Paulo"}.Location()
	req.NoError(err)
	req.Equal("America/Sao_Paulo", location.String())

	_, err = Config{TimeZone: "Nowhere/Town"}.Location()
	req.Error(err)
}
