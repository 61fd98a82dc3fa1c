package main

import (
	"errors"
	"testing"

	"github.com/albapepper/scoracle-matchup/internal/config"
	"github.com/albapepper/scoracle-matchup/internal/dataset"
)

func testConfig() *config.Config {
	return &config.Config{
		FullSeasonFile: config.FullSeasonFile,
		LastFiveFile:   config.LastFiveFile,
		TeamsFile:      config.TeamsFile,
	}
}

func TestTeamPair(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"Aces", "Storm"}, false},
		{[]string{" Aces ", "Aces"}, true},
		{[]string{"Aces", "  "}, true},
	}
	for _, tt := range tests {
		a, b, err := teamPair(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("teamPair(%q) err = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
		if err == nil && (a != "Aces" || b != "Storm") {
			t.Errorf("teamPair(%q) = %q, %q", tt.args, a, b)
		}
	}
}

func TestResolveDataset(t *testing.T) {
	loader := dataset.NewLoader(dataset.NewFileSource(t.TempDir()), testConfig(), nil)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", config.FullSeasonFile, false},
		{"lastfive", config.LastFiveFile, false},
		{config.FullSeasonFile, config.FullSeasonFile, false},
		{"teams", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := resolveDataset(loader, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	cfg := testConfig()

	n, err := validateDocument(cfg, cfg.TeamsFile, []byte(`[{"name":"Aces","stats":{}}]`))
	if err != nil || n != 1 {
		t.Errorf("teams: n=%d err=%v", n, err)
	}

	n, err = validateDocument(cfg, cfg.FullSeasonFile, []byte(`{"data":[{"TEAM NAME":"Aces"},{"TEAM NAME":"Storm"}]}`))
	if err != nil || n != 2 {
		t.Errorf("rows: n=%d err=%v", n, err)
	}

	if _, err := validateDocument(cfg, cfg.LastFiveFile, []byte(`[]`)); !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Errorf("empty table err = %v, want ErrEmptyDataset", err)
	}
}
