package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/shell"
	"github.com/mlops-microproject/review-workspace/internal/workspace"
)

func main() {
	var clipboardPath string
	flag.StringVar(&clipboardPath, "clipboard", filepath.Join(os.TempDir(), "review-workspace", "payload.json"), "file that receives copied JSON")
	flag.Parse()

	cfg := config.Load()
	opts := cfg.Log.ToLoggerOptions()
	opts.Filename = "workspace.log"
	opts.Fields = map[string]string{"service": "workspace-shell"}
	// stdout belongs to the shell, so logs always go to the file
	logger.Init("release", opts)
	defer func() { _ = logger.Z().Sync() }()

	fmt.Println("review-workspace shell, type help for commands")
	sh := shell.New(os.Stdin, os.Stdout, shell.Options{
		MaxOrders: cfg.Workspace.MaxOrders,
		Clipboard: workspace.FileClipboard{Path: clipboardPath},
	})
	if err := sh.Run(); err != nil {
		logger.Errorw("workspace_shell_failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
