package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"m4bforge/internal/chapters"
	"m4bforge/internal/config"
	"m4bforge/internal/media/ffprobe"
	"m4bforge/internal/probe"
)

type stubProber struct {
	durations map[string]float64
	err       error
}

func (s stubProber) Duration(_ context.Context, path string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	duration, ok := s.durations[filepath.Base(path)]
	if !ok {
		return 0, fmt.Errorf("unexpected path %s", path)
	}
	return duration, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Probe.CacheEnabled = false
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

func testBuilder(t *testing.T, cfg *config.Config) *Builder {
	t.Helper()
	builder, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = builder.Close() })
	return builder
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestPlanBuildsDirectoryChapters(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{durations: map[string]float64{
		"001.mp3":  10,
		"002.mp3":  5,
		"001b.mp3": 20,
	}}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"01_Intro/001.mp3": "a",
		"01_Intro/002.mp3": "b",
		"02_Ch1/001b.mp3":  "c",
	})

	plan, err := builder.Plan(context.Background(), PlanRequest{
		Root:      root,
		Mode:      chapters.ModeDir,
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(plan.Inputs) != 3 {
		t.Fatalf("inputs = %d", len(plan.Inputs))
	}
	if plan.TotalMillis != 35000 {
		t.Fatalf("total = %d", plan.TotalMillis)
	}
	if len(plan.Chapters) != 2 {
		t.Fatalf("chapters = %d: %#v", len(plan.Chapters), plan.Chapters)
	}
	if plan.Chapters[0].Title != "01_Intro" || plan.Chapters[0].EndMillis != 15000 {
		t.Fatalf("chapter 0 = %#v", plan.Chapters[0])
	}
	if plan.Chapters[1].StartMillis != 15000 || plan.Chapters[1].EndMillis != 35000 {
		t.Fatalf("chapter 1 = %#v", plan.Chapters[1])
	}
	if plan.OutputName != filepath.Base(root) {
		t.Fatalf("output name = %q", plan.OutputName)
	}
	if !strings.HasSuffix(plan.OutputPath, ".m4b") {
		t.Fatalf("output path = %q", plan.OutputPath)
	}
	if plan.MetadataPath == "" {
		t.Fatal("expected metadata path outside chapterless mode")
	}
}

func TestPlanEmptyRoot(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{}

	_, err := builder.Plan(context.Background(), PlanRequest{Root: t.TempDir()})
	if !errors.Is(err, ErrNoAudioFiles) {
		t.Fatalf("expected ErrNoAudioFiles, got %v", err)
	}
}

func TestPlanProbeFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{err: errors.New("boom")}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.mp3": "x"})

	_, err := builder.Plan(context.Background(), PlanRequest{Root: root, Mode: chapters.ModeFile})
	if err == nil {
		t.Fatal("expected probe failure")
	}
	var probeErr *probe.Error
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected probe error, got %v", err)
	}

	entries, readErr := os.ReadDir(cfg.Paths.WorkDir)
	if readErr != nil {
		t.Fatalf("read work dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("work dir not empty after failed plan: %v", entries)
	}
}

func TestPlanChapterlessMode(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{durations: map[string]float64{"a.mp3": 1}}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.mp3": "x"})

	plan, err := builder.Plan(context.Background(), PlanRequest{Root: root, Mode: chapters.ModeNone})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.MetadataPath != "" {
		t.Fatalf("chapterless plan has metadata path %q", plan.MetadataPath)
	}
	if len(plan.Chapters) != 0 {
		t.Fatalf("chapterless plan has chapters: %#v", plan.Chapters)
	}
}

func TestWriteArtifactsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{durations: map[string]float64{"a.mp3": 2, "b.mp3": 3}}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.mp3": "x", "b.mp3": "y"})

	plan, err := builder.Plan(context.Background(), PlanRequest{Root: root, Mode: chapters.ModeFile})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := builder.WriteArtifacts(plan); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	first, err := os.ReadFile(plan.MetadataPath)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	list, err := os.ReadFile(plan.ConcatListPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if !strings.HasPrefix(string(first), ";FFMETADATA1\n") {
		t.Fatalf("metadata header missing: %q", first)
	}
	for _, input := range plan.Inputs {
		if !strings.Contains(string(list), "file '"+input.Path+"'") {
			t.Fatalf("list missing %s: %q", input.Path, list)
		}
	}

	if err := builder.WriteArtifacts(plan); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, err := os.ReadFile(plan.MetadataPath)
	if err != nil {
		t.Fatalf("reread metadata: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("metadata bytes differ between runs")
	}
}

func TestAssembleRunsFFmpegAndPublishes(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{durations: map[string]float64{"a.mp3": 2}}

	var captured []string
	builder.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		captured = append([]string{name}, args...)
		staged := args[len(args)-1]
		return nil, os.WriteFile(staged, []byte("m4b"), 0o644)
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.mp3": "x"})

	plan, err := builder.Plan(context.Background(), PlanRequest{Root: root, Mode: chapters.ModeFile, OutputName: "book"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := builder.WriteArtifacts(plan); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	if err := builder.Assemble(context.Background(), plan); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if _, err := os.Stat(plan.OutputPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	joined := strings.Join(captured, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -i "+plan.ConcatListPath) {
		t.Fatalf("concat input missing: %s", joined)
	}
	if !strings.Contains(joined, "-i "+plan.MetadataPath+" -map_metadata 1") {
		t.Fatalf("metadata mapping missing: %s", joined)
	}
	if !strings.Contains(joined, "-c copy") {
		t.Fatalf("copy codec missing: %s", joined)
	}
}

func TestAssembleReportsFFmpegFailure(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{durations: map[string]float64{"a.mp3": 2}}
	builder.run = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return []byte("muxer exploded"), errors.New("exit status 1")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.mp3": "x"})

	plan, err := builder.Plan(context.Background(), PlanRequest{Root: root, Mode: chapters.ModeFile})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := builder.WriteArtifacts(plan); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	err = builder.Assemble(context.Background(), plan)
	if err == nil || !strings.Contains(err.Error(), "muxer exploded") {
		t.Fatalf("expected ffmpeg output in error, got %v", err)
	}
	if _, statErr := os.Stat(plan.OutputPath); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist after failure: %v", statErr)
	}
}

func TestAssembleRefusesWhenLocked(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)
	builder.prober = stubProber{durations: map[string]float64{"a.mp3": 2}}
	builder.run = func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return nil, os.WriteFile(args[len(args)-1], []byte("m4b"), 0o644)
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.mp3": "x"})

	plan, err := builder.Plan(context.Background(), PlanRequest{Root: root, Mode: chapters.ModeFile})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := builder.WriteArtifacts(plan); err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	held := flock.New(filepath.Join(cfg.Paths.WorkDir, "m4bforge.lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: %v", err)
	}
	defer func() { _ = held.Unlock() }()

	if err := builder.Assemble(context.Background(), plan); !errors.Is(err, ErrBuildLocked) {
		t.Fatalf("expected ErrBuildLocked, got %v", err)
	}
}

func TestFFmpegArgs(t *testing.T) {
	plan := &Plan{ConcatListPath: "/w/list.txt", MetadataPath: "/w/meta", OutputName: "b"}

	copyArgs := strings.Join(ffmpegArgs(plan, config.Encoding{CopyCodec: true}, "/w/b.m4b"), " ")
	if !strings.Contains(copyArgs, "-c copy") || !strings.Contains(copyArgs, "-map_metadata 1") {
		t.Fatalf("copy args = %s", copyArgs)
	}
	if !strings.HasSuffix(copyArgs, "/w/b.m4b") {
		t.Fatalf("staged path must be last: %s", copyArgs)
	}

	plan.MetadataPath = ""
	encodeArgs := strings.Join(ffmpegArgs(plan, config.Encoding{AudioBitrate: "96k"}, "/w/b.m4b"), " ")
	if strings.Contains(encodeArgs, "map_metadata") {
		t.Fatalf("chapterless args mention metadata: %s", encodeArgs)
	}
	if !strings.Contains(encodeArgs, "-c:a aac -b:a 96k") {
		t.Fatalf("encode args = %s", encodeArgs)
	}
}

func TestMergeCombinesEmbeddedChapters(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)

	dir := t.TempDir()
	part1 := filepath.Join(dir, "part1.m4b")
	part2 := filepath.Join(dir, "part2.m4b")
	writeTree(t, dir, map[string]string{"part1.m4b": "aa", "part2.m4b": "bb"})

	builder.inspect = func(_ context.Context, _ string, path string) (ffprobe.Result, error) {
		switch filepath.Base(path) {
		case "part1.m4b":
			return ffprobe.Result{
				Format: ffprobe.Format{Duration: "10.0"},
				Chapters: []ffprobe.Chapter{
					{StartTime: "0.0", EndTime: "4.0", Tags: ffprobe.ChapterTags{Title: "Intro"}},
					{StartTime: "4.0", EndTime: "10.0", Tags: ffprobe.ChapterTags{Title: "One"}},
				},
			}, nil
		case "part2.m4b":
			return ffprobe.Result{
				Format: ffprobe.Format{Duration: "5.0", Tags: ffprobe.Tags{Title: "Part Two"}},
			}, nil
		}
		return ffprobe.Result{}, fmt.Errorf("unexpected path %s", path)
	}

	plan, err := builder.Merge(context.Background(), MergeRequest{
		Paths:      []string{part1, part2},
		OutputName: "whole",
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := []chapters.Chapter{
		{StartMillis: 0, EndMillis: 4000, Title: "Intro"},
		{StartMillis: 4000, EndMillis: 10000, Title: "One"},
		{StartMillis: 10000, EndMillis: 15000, Title: "Part Two"},
	}
	if len(plan.Chapters) != len(want) {
		t.Fatalf("chapters = %#v", plan.Chapters)
	}
	for i, chapter := range want {
		if plan.Chapters[i] != chapter {
			t.Fatalf("chapter %d = %#v, want %#v", i, plan.Chapters[i], chapter)
		}
	}
	if plan.OutputName != "whole" {
		t.Fatalf("output name = %q", plan.OutputName)
	}
	if plan.TotalMillis != 15000 {
		t.Fatalf("total = %d", plan.TotalMillis)
	}
}

func TestMergeFailsOnUnreadablePart(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)

	_, err := builder.Merge(context.Background(), MergeRequest{Paths: []string{"/nonexistent/part.m4b"}})
	var probeErr *probe.Error
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestMergeEmptyRequest(t *testing.T) {
	cfg := testConfig(t)
	builder := testBuilder(t, cfg)

	if _, err := builder.Merge(context.Background(), MergeRequest{}); !errors.Is(err, ErrNoAudioFiles) {
		t.Fatalf("expected ErrNoAudioFiles, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	if got := outputName(" My Book.m4b ", "/x"); got != "My Book" {
		t.Fatalf("got %q", got)
	}
	if got := outputName("", "/books/Hail Mary"); got != "Hail Mary" {
		t.Fatalf("got %q", got)
	}
}
