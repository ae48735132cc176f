package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/filehub/uploader/internal/config"
	"github.com/filehub/uploader/internal/engine"
	"github.com/filehub/uploader/internal/uploadsdk"
	"github.com/filehub/uploader/internal/utils"
)

func runUpload(ctx context.Context, cfg *config.Config, paths []string) error {
	refs, closer, err := openFiles(paths)
	if err != nil {
		return err
	}
	defer closer()

	sdk, err := uploadsdk.New(cfg.ServerURL)
	if err != nil {
		return err
	}
	defer sdk.Close()

	eng := engine.New(engine.NewSDKTransport(sdk), engine.Config{
		Concurrency:     cfg.Concurrency,
		DirectThreshold: cfg.DirectThreshold,
		ChunkThreshold:  int64(cfg.ChunkSizeMB) * 1024 * 1024,
	})
	defer eng.Close()

	events := eng.Subscribe()
	go renderProgress(events)

	if err := eng.Start(ctx, refs, cfg.Category); err != nil {
		return err
	}
	eng.Wait()

	snap := eng.Snapshot()
	printSummary(snap)

	if snap.Cancelled > 0 {
		return fmt.Errorf("upload cancelled")
	}
	if snap.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", snap.Failed, snap.TotalFiles)
	}
	return nil
}

// openFiles stats and opens every path as a FileRef, returning a cleanup
// func that closes them all
func openFiles(paths []string) ([]*uploadsdk.FileRef, func(), error) {
	refs := make([]*uploadsdk.FileRef, 0, len(paths))
	files := make([]*os.File, 0, len(paths))
	closer := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, path := range paths {
		resolved, err := utils.ResolvePath(path)
		if err != nil {
			closer()
			return nil, nil, err
		}
		if !utils.FileExists(resolved) {
			closer()
			return nil, nil, fmt.Errorf("not a file: %s", path)
		}

		file, err := os.Open(resolved)
		if err != nil {
			closer()
			return nil, nil, err
		}
		info, err := file.Stat()
		if err != nil {
			closer()
			return nil, nil, err
		}

		files = append(files, file)
		refs = append(refs, &uploadsdk.FileRef{
			Name:        filepath.Base(resolved),
			Size:        info.Size(),
			ContentType: utils.DetectContentType(resolved),
			Source:      file,
		})
	}

	return refs, closer, nil
}

func renderProgress(events <-chan engine.Session) {
	var lastFile string
	for snap := range events {
		if snap.CurrentFile != "" && snap.CurrentFile != lastFile {
			lastFile = snap.CurrentFile
			slog.Info("uploading",
				"file", snap.CurrentFile,
				"done", snap.Completed+snap.Failed+snap.Cancelled,
				"total", snap.TotalFiles,
				"bytes", humanize.Bytes(uint64(snap.UploadedBytes)),
			)
		}
	}
}

func printSummary(snap engine.Session) {
	fmt.Println()
	fmt.Println(cyan("Upload summary"))
	fmt.Printf("  %s %d\n", green("completed:"), snap.Completed)
	if snap.Failed > 0 {
		fmt.Printf("  %s %d\n", red("failed:"), snap.Failed)
		for _, task := range snap.Tasks {
			if task.Status == engine.TaskFailed {
				fmt.Printf("    %s: %s\n", task.Ref.Name, task.Error)
			}
		}
	}
	if snap.Cancelled > 0 {
		fmt.Printf("  cancelled: %d\n", snap.Cancelled)
	}
	fmt.Printf("  transferred %s of %s\n",
		humanize.Bytes(uint64(snap.UploadedBytes)),
		humanize.Bytes(uint64(snap.TotalBytes)),
	)
}
