package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studyboard/internal/config"
	httpServer "studyboard/internal/http"
	"studyboard/internal/http/handlers"
	"studyboard/internal/repository"
	"studyboard/internal/service"
	"studyboard/internal/view"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type cli struct {
	t         *testing.T
	server    string
	tokenFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret", time.Hour)

	auditSvc := service.NewAuditService(repository.NewMemoryAuditRepository())
	authSvc := service.NewAuthServiceWithCost(repository.NewMemoryUserRepository(), service.NewMemoryRevoker(), auditSvc, bcrypt.MinCost)
	h := handlers.NewHandler(service.NewTaskService(repository.NewMemoryTaskRepository()), authSvc, auditSvc)

	cfg := &config.Config{
		APIRateLimit: 1000, APIRateWindow: time.Minute,
		AuthRateLimit: 1000, AuthRateWindow: time.Minute,
		TaskRateLimit: 1000, TaskRateWindow: time.Minute,
	}
	r := gin.New()
	httpServer.RegisterRoutes(r, h, handlers.NewHealthHandler("test", nil), authSvc, cfg)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &cli{t: t, server: srv.URL, tokenFile: filepath.Join(t.TempDir(), "studyboard", "token")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--server", c.server, "--token-file", c.tokenFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("studyctl %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (c *cli) board(args ...string) view.BoardView {
	c.t.Helper()
	var b view.BoardView
	out := c.mustRun(append([]string{"list", "--json"}, args...)...)
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		c.t.Fatalf("decode board: %v\n%s", err, out)
	}
	return b
}

func TestCLIWorkflow(t *testing.T) {
	c := newCLI(t)

	if _, err := c.run("list"); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("list before login: %v", err)
	}

	out := c.mustRun("register", "-e", "cli@example.com", "-p", "secret1")
	if !strings.Contains(out, "Logged in as cli@example.com") {
		t.Fatalf("register output: %s", out)
	}
	if b, err := os.ReadFile(c.tokenFile); err != nil || len(bytes.TrimSpace(b)) == 0 {
		t.Fatalf("token not saved: %v", err)
	}

	c.mustRun("add", "-t", "Lab Report", "-p", "high", "--due", "2025-03-20")
	c.mustRun("add", "--title", "Read Ch.3", "--type", "lecture")

	b := c.board()
	if b.Stats.Total != 2 || b.Stats.Pending != 2 {
		t.Fatalf("stats after add: %+v", b.Stats)
	}
	var labID string
	for _, task := range b.Tasks {
		if task.Title == "Lab Report" {
			labID = task.ID
		}
	}
	if labID == "" {
		t.Fatalf("Lab Report not listed: %+v", b.Tasks)
	}

	out = c.mustRun("move", labID, "completed")
	if !strings.Contains(out, "Done") {
		t.Fatalf("move output: %s", out)
	}
	c.mustRun("edit", labID, "--desc", "titration")

	b = c.board("-q", "TITRATION")
	if len(b.Tasks) != 1 || b.Tasks[0].Status != "completed" || b.Tasks[0].Priority != "high" {
		t.Fatalf("after edit: %+v", b.Tasks)
	}
	b = c.board("--query", "lecture")
	if len(b.Tasks) != 1 || b.Tasks[0].Title != "Read Ch.3" {
		t.Fatalf("search by type: %+v", b.Tasks)
	}

	out = c.mustRun("stats")
	if !strings.Contains(out, "Total 2") || !strings.Contains(out, "Completion 50.0%") {
		t.Fatalf("stats output: %s", out)
	}

	out = c.mustRun("list")
	for _, want := range []string{"To do (1)", "Done (1)", "Read Ch.3", "2025-03-20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}

	if _, err := c.run("move", labID, "archived"); err == nil {
		t.Fatal("invalid status accepted")
	}
	if _, err := c.run("edit", "missing-id", "--title", "x"); err == nil {
		t.Fatal("editing a missing task should fail")
	}
	if _, err := c.run("add", "--title", "   "); err == nil {
		t.Fatal("blank title accepted")
	}

	c.mustRun("rm", labID)
	if b := c.board(); len(b.Tasks) != 1 {
		t.Fatalf("after rm: %d tasks", len(b.Tasks))
	}

	c.mustRun("logout")
	if _, err := os.Stat(c.tokenFile); !os.IsNotExist(err) {
		t.Fatalf("token file still present: %v", err)
	}

	out = c.mustRun("login", "-e", "cli@example.com", "-p", "secret1")
	if !strings.Contains(out, "Logged in") {
		t.Fatalf("login output: %s", out)
	}
}
