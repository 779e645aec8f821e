package core

import (
	"errors"
	"testing"
)

func TestNewEngineShouldValidateConfig(t *testing.T) {
	storage := NewFakeStorage()
	publisher := &FakePublisher{}

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "missing secret",
			config:  Config{Database: storage, HTTP: nopHTTP{}, Publisher: publisher},
			wantErr: ErrSecretRequired,
		},
		{
			name:    "short secret",
			config:  Config{Secret: "too-short", Database: storage, HTTP: nopHTTP{}, Publisher: publisher},
			wantErr: ErrSecretTooShort,
		},
		{
			name:    "missing storage",
			config:  Config{Secret: testSecret, HTTP: nopHTTP{}, Publisher: publisher},
			wantErr: ErrStorageRequired,
		},
		{
			name:    "missing http adapter",
			config:  Config{Secret: testSecret, Database: storage, Publisher: publisher},
			wantErr: ErrHTTPRequired,
		},
		{
			name:    "missing publisher",
			config:  Config{Secret: testSecret, Database: storage, HTTP: nopHTTP{}},
			wantErr: ErrPublisherRequired,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewEngine(test.config)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("NewEngine() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

type recordingHTTP struct {
	handler  TimerHandler
	basePath string
}

func (r *recordingHTTP) RegisterRoutes(handler TimerHandler, basePath string) error {
	r.handler = handler
	r.basePath = basePath
	return nil
}

func TestNewEngineShouldRegisterRoutes(t *testing.T) {
	http := &recordingHTTP{}
	engine, err := NewEngine(Config{
		Secret:    testSecret,
		BaseURL:   "https://deadlines.test",
		Database:  NewFakeStorage(),
		HTTP:      http,
		Publisher: &FakePublisher{},
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if http.handler != TimerHandler(engine) {
		t.Error("engine not registered as the route handler")
	}
	if http.basePath != "/api" {
		t.Errorf("basePath = %q, want /api", http.basePath)
	}
}

func TestNewEngineShouldHonorBasePathOverride(t *testing.T) {
	http := &recordingHTTP{}
	_, err := NewEngine(Config{
		Secret:    testSecret,
		Database:  NewFakeStorage(),
		HTTP:      http,
		Publisher: &FakePublisher{},
		BasePath:  "/v1",
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if http.basePath != "/v1" {
		t.Errorf("basePath = %q, want /v1", http.basePath)
	}
}
