package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakeAPI serves just enough of the woodshop API for CLI tests and points
// the client config at it through the environment.
func newFakeAPI(t *testing.T, answer string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/get-session/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`[]`)); err != nil {
			t.Errorf("write sessions: %v", err)
		}
	})
	mux.HandleFunc("/api/save-session", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/random-questions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`[{"question_text": "What glue for end grain?"}]`)); err != nil {
			t.Errorf("write questions: %v", err)
		}
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"response": answer}); err != nil {
			t.Errorf("write answer: %v", err)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("WOODSHOP_API_URL", srv.URL)
	t.Setenv("WOODSHOP_DATA_DIR", t.TempDir())
	t.Setenv("ASK_TIMEOUT", "5s")

	return srv
}

func TestAskCommand(t *testing.T) {
	newFakeAPI(t, "Use a penetrating epoxy first.")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"ask", "What glue for end grain?"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Failed to run ask: %v", err)
	}
	if !strings.Contains(out.String(), "Use a penetrating epoxy first.") {
		t.Errorf("Expected answer in output, got %q", out.String())
	}
}

func TestAskCommandRejectsUnknownTopic(t *testing.T) {
	newFakeAPI(t, "unused")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"ask", "--topic", "metalwork", "anything"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected an error for an unknown topic")
	}
}

func TestSessionsCommandEmpty(t *testing.T) {
	newFakeAPI(t, "unused")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"sessions"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Failed to run sessions: %v", err)
	}
	if !strings.Contains(out.String(), "No saved threads.") {
		t.Errorf("Expected empty listing, got %q", out.String())
	}
}

func TestInteractiveAskAndQuit(t *testing.T) {
	newFakeAPI(t, "A low-angle block plane.")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("Best first hand plane?\n/quit\n"))
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Failed to run interactive session: %v", err)
	}
	if !strings.Contains(out.String(), "A low-angle block plane.") {
		t.Errorf("Expected answer in transcript, got %q", out.String())
	}
	if !strings.Contains(out.String(), "What glue for end grain?") {
		t.Errorf("Expected suggestions in greeting, got %q", out.String())
	}
}

func TestInteractiveTopicSwitch(t *testing.T) {
	newFakeAPI(t, "unused")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("/topic shop-improvement\n/topic welding\n/quit\n"))
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Failed to run interactive session: %v", err)
	}
	if !strings.Contains(out.String(), "Topic is now shop-improvement.") {
		t.Errorf("Expected topic switch confirmation, got %q", out.String())
	}
	if !strings.Contains(out.String(), `Unknown topic "welding"`) {
		t.Errorf("Expected unknown-topic message, got %q", out.String())
	}
}
