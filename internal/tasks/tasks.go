package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topten/internal/formatter"
	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/repositories"
	"github.com/desertthunder/topten/internal/shared"
	"golang.org/x/time/rate"
)

// ListSource supplies the users and ranked lists an [Archiver] exports.
type ListSource interface {
	UserNames() ([]string, error)
	RankedSongs(user string) ([]models.Song, error)
}

// RepositorySource reads users and rankings from the SQLite repositories.
type RepositorySource struct {
	users *repositories.UserRepository
	songs *repositories.SongRepository
}

// NewRepositorySource creates a [ListSource] over db.
func NewRepositorySource(db *sql.DB) *RepositorySource {
	return &RepositorySource{
		users: repositories.NewUserRepository(db),
		songs: repositories.NewSongRepository(db),
	}
}

// UserNames returns every user name, sorted.
func (s *RepositorySource) UserNames() ([]string, error) {
	users, err := s.users.List(nil)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(users))
	for i, user := range users {
		names[i] = user.Name()
	}
	return names, nil
}

// RankedSongs returns the saved list of user in rank order.
func (s *RepositorySource) RankedSongs(user string) ([]models.Song, error) {
	return s.songs.ListForUser(user)
}

// ArchiveOpts contains configuration for archive exports.
type ArchiveOpts struct {
	Format     formatter.Format // Export format: csv, markdown, txt, json (default: json)
	OutputDir  string           // Base output directory (default: topten_archive_{epoch})
	NumWorkers int              // Concurrent workers (default: 4)
	RateLimit  float64          // Exports started per second (default: 5)
}

// ArchiveResult summarizes an archive run. It is also the manifest written next to the exports.
type ArchiveResult struct {
	TotalUsers        int                `json:"total_users"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	Format            formatter.Format   `json:"format"`
	OutputDirectory   string             `json:"output_directory"`
	ManifestPath      string             `json:"-"`
	Results           []UserExportResult `json:"results"`
}

// UserExportResult is the outcome of exporting one user's list.
type UserExportResult struct {
	User    string   `json:"user"`
	Songs   int      `json:"songs"`
	Files   []string `json:"files,omitempty"`
	Success bool     `json:"success"`
	Error   error    `json:"-"`
	Message string   `json:"error,omitempty"`
}

type exportJob struct {
	index int
	user  string
}

// Archiver exports saved rankings in bulk.
type Archiver struct {
	source ListSource
	logger *log.Logger
}

// NewArchiver creates an [Archiver] reading from source.
func NewArchiver(source ListSource, logger *log.Logger) *Archiver {
	if logger == nil {
		logger = log.Default()
	}
	return &Archiver{source: source, logger: logger.WithPrefix("archive")}
}

// sendProgress sends a progress update through the channel without blocking.
func (a *Archiver) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Archive exports every user's list concurrently and writes export_manifest.json into the output directory.
//
// Per-user failures are recorded in the result; the returned error is reserved for failures of the
// run itself (no source, unreadable users, cancellation, manifest write).
func (a *Archiver) Archive(ctx context.Context, prog chan<- ProgressUpdate, opts ArchiveOpts) (*ArchiveResult, error) {
	if a.source == nil {
		return nil, fmt.Errorf("%w: list source not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	format, err := formatter.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("topten_archive_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	a.sendProgress(prog, fetchingUsersUpdate())
	users, err := a.source.UserNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ArchiveResult{
		TotalUsers:      len(users),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Results:         make([]UserExportResult, 0, len(users)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(users))
	results := make(chan UserExportResult, len(users))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go a.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, user := range users {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- exportJob{index: i, user: user}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			a.sendProgress(prog, exportCompletedUpdate(completed, len(users), res.User, res.Songs))
		} else {
			result.FailedExports++
			a.logger.Warn("export failed", "user", res.User, "error", res.Error)
			a.sendProgress(prog, exportFailedUpdate(completed, len(users), res.User, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].User < result.Results[j].User
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("archive interrupted after %d of %d users: %w", completed, len(users), err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	a.sendProgress(prog, writingManifestUpdate(manifestPath))

	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}

	result.ManifestPath = manifestPath
	a.logger.Info("archive complete", "users", len(users), "failed", result.FailedExports, "dir", opts.OutputDir)
	return result, nil
}

// exportWorker is a worker goroutine that exports lists from the jobs channel.
func (a *Archiver) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- UserExportResult,
	opts ArchiveOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- a.exportList(job, opts)
	}
}

// exportList writes one user's list. Files are prefixed with the user's position
// so that names which sanitize to the same string cannot collide.
func (a *Archiver) exportList(job exportJob, opts ArchiveOpts) UserExportResult {
	result := UserExportResult{User: job.user, Files: []string{}}

	fail := func(err error) UserExportResult {
		result.Error = err
		result.Message = err.Error()
		return result
	}

	songs, err := a.source.RankedSongs(job.user)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch rankings: %w", err))
	}
	result.Songs = len(songs)

	list := formatter.List{Title: fmt.Sprintf("%s's Top Ten", job.user), Songs: songs}
	base := fmt.Sprintf("%03d_%s", job.index+1, safeName(job.user))

	if opts.Format == formatter.FormatMarkdown {
		md, err := formatter.WriteMarkdownExport(list, filepath.Join(opts.OutputDir, base), io.Discard)
		if err != nil {
			return fail(fmt.Errorf("markdown export failed: %w", err))
		}
		result.Files = md.Files
		result.Success = true
		return result
	}

	path := filepath.Join(opts.OutputDir, base+"."+string(opts.Format))
	if err := formatter.WriteExport(list, opts.Format, path); err != nil {
		return fail(err)
	}

	result.Files = []string{path}
	result.Success = true
	return result
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func safeName(name string) string {
	safe := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if safe == "" {
		return "user"
	}
	return strings.ToLower(safe)
}
