package cli

import (
	"encoding/json"
	"testing"
)

func TestOutputContract_JSONEnvelope(t *testing.T) {
	e := newTestEnv(t)

	mustEnv := func(args ...string) map[string]any {
		t.Helper()
		stdout, stderr, err := runCLI(t, e.args(args...))
		if err != nil {
			t.Fatalf("command failed: focus %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
		}
		if meta, ok := env["meta"]; ok && meta != nil {
			if _, ok := meta.(map[string]any); !ok {
				t.Fatalf("expected meta to be object; got %T", meta)
			}
		}
		if hints, ok := env["_hints"]; ok && hints != nil {
			if _, ok := hints.([]any); !ok {
				t.Fatalf("expected _hints to be list; got %T", hints)
			}
		}
		return env
	}

	proj := mustEnv("projects", "add", "Home")
	projectID, _ := proj["data"].(map[string]any)["id"].(string)
	if projectID == "" {
		t.Fatalf("expected projects add to return project id; got: %#v", proj["data"])
	}
	task := mustEnv("tasks", "add", "Contract task", "--project", "Home", "--status", "pool", "--step", "One")
	taskID, _ := task["data"].(map[string]any)["id"].(string)
	if taskID == "" {
		t.Fatalf("expected tasks add to return task id; got: %#v", task["data"])
	}

	mustEnv("status")
	mustEnv("tasks", "list")
	mustEnv("tasks", "show", taskID)
	mustEnv("tasks", "find", "contract")
	mustEnv("tasks", "events", taskID)
	mustEnv("projects", "list")
	mustEnv("health")
	mustEnv("next")
	mustEnv("queue", "add", taskID)
	mustEnv("queue", "list")
	mustEnv("focus", "status")
	mustEnv("focus", "history")
	mustEnv("recurring", "today")
	mustEnv("energy", "show")
	mustEnv("config", "show")
	mustEnv("config", "path")
	mustEnv("docs")
	mustEnv("docs", "focus")
}
