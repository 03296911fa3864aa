package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	schedule := "- equipment: Fire Alarm\n  company: Acme\n  q1: January\n  q3: July\n"
	inductions := "- company: Acme\n  name: Jane Smith\n  expiry_date: \"2025-06-01\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schedule.yaml"), []byte(schedule), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inductions.yaml"), []byte(inductions), 0o600))

	cfg := "schedule_path: " + filepath.Join(dir, "schedule.yaml") + "\n" +
		"inductions_path: " + filepath.Join(dir, "inductions.yaml") + "\n" +
		"db_path: " + filepath.Join(dir, "conversations.db") + "\n"
	cfgPath := filepath.Join(dir, "maintenancectl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()

	var body map[string]any
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &body), out.String())
	}
	return body, err
}

func TestLoadConfig(t *testing.T) {
	cfgPath := writeFixtures(t)

	cfg, err := loadConfig(cfgPath, true)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(filepath.Dir(cfgPath), "schedule.yaml"), cfg.SchedulePath)

	t.Setenv("CONVERSATION_DB_PATH", "/tmp/override.db")
	cfg, err = loadConfig(cfgPath, true)
	require.NoError(t, err)
	require.Equal(t, "/tmp/override.db", cfg.DBPath)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.Error(t, err)

	cfg, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	require.Equal(t, "/tmp/override.db", cfg.DBPath)
}

func TestWindowCommand(t *testing.T) {
	cfgPath := writeFixtures(t)

	body, err := run(t, "--config", cfgPath, "window", "--equipment", "fire alarm", "--company", "ACME", "--date", "15/01/2024")
	require.NoError(t, err)
	require.Equal(t, "Yes", body["status"])

	body, err = run(t, "--config", cfgPath, "window", "--equipment", "Fire Alarm", "--company", "Acme", "--date", "2024-03-01")
	require.NoError(t, err)
	require.Equal(t, "No - Due in January", body["status"])
	require.NotContains(t, body, "conversation")

	_, err = os.Stat(filepath.Join(filepath.Dir(cfgPath), "conversations.db"))
	require.True(t, os.IsNotExist(err), "window without --email must not create the database")
}

func TestWindowCommand_WithEmailOpensConversation(t *testing.T) {
	cfgPath := writeFixtures(t)

	body, err := run(t, "--config", cfgPath, "window", "--equipment", "Fire Alarm", "--company", "Acme", "--date", "2024-03-01", "--email", "jane@acme.com")
	require.NoError(t, err)
	require.Equal(t, "No - Due in January", body["status"])
	conv := body["conversation"].(map[string]any)
	require.Equal(t, true, conv["created"])
	require.Equal(t, "Fire Alarm request", conv["subject"])
	require.Equal(t, "Scheduling Request", conv["status"])

	body, err = run(t, "--config", cfgPath, "contact", "--email", "jane@acme.com", "--subject", "fire alarm request", "--attachment")
	require.NoError(t, err)
	require.Equal(t, false, body["created"])
	require.Equal(t, "Awaiting RAMS and Engineer Names", body["status"])
}

func TestRootCommand_RejectsBadLogLevel(t *testing.T) {
	cfgPath := writeFixtures(t)

	_, err := run(t, "--log-level", "loud", "--config", cfgPath, "window", "--equipment", "Fire Alarm", "--company", "Acme", "--date", "2024-03-01")
	require.ErrorContains(t, err, "invalid --log-level")
}

func TestInductionCommand(t *testing.T) {
	cfgPath := writeFixtures(t)

	body, err := run(t, "--config", cfgPath, "induction", "--company", "Acme", "--engineer", "Jane Smith, Tom Jones", "--date", "2025-01-01")
	require.NoError(t, err)
	results := body["results"].([]any)
	require.Len(t, results, 2)
	require.Equal(t, "Inducted", results[0].(map[string]any)["verdict"])
	require.Equal(t, "Unknown", results[1].(map[string]any)["verdict"])
}

func TestContactCommand_TracksConversation(t *testing.T) {
	cfgPath := writeFixtures(t)

	body, err := run(t, "--config", cfgPath, "contact", "--email", "jane@acme.com", "--subject", "Fire alarm", "--attachment")
	require.NoError(t, err)
	require.Equal(t, true, body["created"])
	require.Equal(t, "Awaiting Engineer Names", body["status"])

	body, err = run(t, "--config", cfgPath, "contact", "--email", "JANE@acme.com", "--subject", "fire alarm", "--attachment", "--engineers", "Jane Smith")
	require.NoError(t, err)
	require.Equal(t, false, body["created"])
	require.Equal(t, "Conversation Complete", body["status"])

	_, err = run(t, "--config", cfgPath, "contact", "--subject", "Fire alarm")
	require.Error(t, err)
}
