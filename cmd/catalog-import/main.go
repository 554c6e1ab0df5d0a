// Command catalog-import loads gzipped JSONL product feeds into the catalog.
//
// Supplier feeds overlap: the same SKU can appear in several feeds and even
// several times within one feed. Feeds are parsed concurrently, then merged
// in feed order with a bloom filter deduplicating SKUs (first occurrence
// wins) before the rows are upserted in batches.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
	batchSize     = 500
	progressEvery = 100_000
)

// feedRow is one JSONL line of a supplier feed.
type feedRow struct {
	SKU         string          `json:"sku"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"categoryId"`
	Image       struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "feeds", "directory containing *.jsonl.gz product feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(feedDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds found in %s", feedDir)
	}

	slog.Info("parsing feeds", slog.Int("files", len(files)))

	feeds, err := parseFeeds(ctx, files)
	if err != nil {
		return errors.Wrap(err, "parse feeds")
	}

	rows := dedupeFeeds(files, feeds)

	slog.Info("deduplicated rows", slog.Int("count", len(rows)))

	if len(rows) == 0 {
		slog.Info("nothing to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := writeProducts(ctx, pool, rows); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// parseFeeds reads all feed files concurrently, one slice of rows per file.
func parseFeeds(ctx context.Context, files []string) ([][]feedRow, error) {
	feeds := make([][]feedRow, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFeedFile(ctx, i, f, feeds))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return feeds, nil
}

func parseFeedFile(ctx context.Context, idx int, path string, feeds [][]feedRow) func() error {
	return func() error {
		var (
			rows    []feedRow
			count   uint64
			skipped uint64
		)

		if err := streamGzFile(ctx, path, func(line []byte) {
			var row feedRow
			if err := json.Unmarshal(line, &row); err != nil || row.SKU == "" || row.Title == "" {
				skipped++
				return
			}
			rows = append(rows, row)
			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("rows", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "parse feed %s", path)
		}

		slog.Info("parsed feed",
			slog.String("file", filepath.Base(path)),
			slog.Uint64("rows", count),
			slog.Uint64("skipped", skipped),
		)

		feeds[idx] = rows
		return nil
	}
}

// dedupeFeeds merges parsed feeds in file order, keeping the first occurrence
// of each SKU. The bloom filter trades a tiny false-positive rate (a row
// wrongly treated as a duplicate) for flat memory use on very large feeds.
func dedupeFeeds(files []string, feeds [][]feedRow) []feedRow {
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	var merged []feedRow

	for i, rows := range feeds {
		var dupes uint64
		for _, row := range rows {
			if seen.TestString(row.SKU) {
				dupes++
				continue
			}
			seen.AddString(row.SKU)
			merged = append(merged, row)
		}
		slog.Info("merged feed",
			slog.String("file", filepath.Base(files[i])),
			slog.Int("rows", len(rows)),
			slog.Uint64("duplicates", dupes),
		)
	}

	return merged
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

const upsertProductSQL = `
INSERT INTO products (id, title, description, price, stock, category_id,
                      image_thumbnail, image_mobile, image_tablet, image_desktop)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    title           = EXCLUDED.title,
    description     = EXCLUDED.description,
    price           = EXCLUDED.price,
    stock           = EXCLUDED.stock,
    category_id     = EXCLUDED.category_id,
    image_thumbnail = EXCLUDED.image_thumbnail,
    image_mobile    = EXCLUDED.image_mobile,
    image_tablet    = EXCLUDED.image_tablet,
    image_desktop   = EXCLUDED.image_desktop`

// writeProducts upserts all rows in pipelined batches.
func writeProducts(ctx context.Context, pool *pgxpool.Pool, rows []feedRow) error {
	slog.Info("writing products to database", slog.Int("count", len(rows)))

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		batch := &pgx.Batch{}
		for _, row := range rows[start:end] {
			batch.Queue(upsertProductSQL,
				row.SKU, row.Title, row.Description, row.Price, row.Stock, row.CategoryID,
				row.Image.Thumbnail, row.Image.Mobile, row.Image.Tablet, row.Image.Desktop,
			)
		}

		if err := pool.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrapf(err, "upsert batch at offset %d", start)
		}

		slog.Info("write progress", slog.Int("written", end), slog.Int("total", len(rows)))
	}

	return nil
}
