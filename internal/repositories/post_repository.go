package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"foodshare-service/internal/geo"
	"foodshare-service/internal/models"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrAlreadyClaimed  = errors.New("post already claimed")
	ErrSelfClaim       = errors.New("cannot claim own post")
	ErrNotClaimable    = errors.New("post not claimable")
	ErrAlreadyReported = errors.New("post already reported by user")
	ErrSelfReport      = errors.New("cannot report own post")
)

const postColumns = `id, owner_id, owner_name, title, description, photos, expires_on,
    city, latitude, longitude, postal_code, country, status, admin_comment,
    is_available, claimant_id, claimed_at, removed, report_count, last_report_reason, created_at`

// PostRepository abstracts meal post persistence and the post lifecycle
// transitions.
type PostRepository interface {
	Create(ctx context.Context, post models.MealPost) (models.MealPost, error)
	GetPost(ctx context.Context, postID int) (models.MealPost, error)
	Discover(ctx context.Context, center geo.Coordinate, radiusKm float64, limit, offset int) ([]models.MealPost, error)
	Claim(ctx context.Context, postID, claimantID int) (models.MealPost, error)
	Report(ctx context.Context, postID, reporterID int, reason string) error
	Moderate(ctx context.Context, postID int, status, comment string) (models.MealPost, error)
	Remove(ctx context.Context, postID int, comment string) (models.MealPost, error)
	ClearReports(ctx context.Context, postID int) error
	ReportedQueue(ctx context.Context) ([]models.MealPost, error)
	ReportsForPost(ctx context.Context, postID int) ([]models.PostReport, error)
	ListPending(ctx context.Context) ([]models.MealPost, error)
	ListAll(ctx context.Context) ([]models.MealPost, error)
	ListMine(ctx context.Context, ownerID int) ([]models.MealPost, error)
	ListClaimedBy(ctx context.Context, userID int) ([]models.MealPost, error)
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create stores a new post as PENDING, available and unreported.
func (r *PostRepo) Create(ctx context.Context, post models.MealPost) (models.MealPost, error) {
	var created models.MealPost
	err := r.db.QueryRowxContext(ctx, `INSERT INTO meal_posts
        (owner_id, owner_name, title, description, photos, expires_on, city, latitude, longitude, postal_code, country)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING `+postColumns,
		post.OwnerID, post.OwnerName, post.Title, post.Description, post.Photos,
		post.ExpiresOn, post.City, post.Latitude, post.Longitude, post.PostalCode, post.Country).
		StructScan(&created)
	return created, err
}

// GetPost fetches a post by id.
func (r *PostRepo) GetPost(ctx context.Context, postID int) (models.MealPost, error) {
	var post models.MealPost
	err := r.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM meal_posts WHERE id=$1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealPost{}, ErrPostNotFound
	}
	return post, err
}

// Discover returns approved, available, unexpired posts within radiusKm of
// center, most recently created first. The geo filter runs over the SQL
// candidate set; paging is applied after it so pages stay stable for a
// fixed center.
func (r *PostRepo) Discover(ctx context.Context, center geo.Coordinate, radiusKm float64, limit, offset int) ([]models.MealPost, error) {
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}

	var candidates []models.MealPost
	query := `SELECT ` + postColumns + ` FROM meal_posts
        WHERE status=$1 AND is_available = TRUE AND removed = FALSE AND expires_on >= CURRENT_DATE
        ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &candidates, query, models.StatusApproved); err != nil {
		return nil, err
	}

	matched := make([]models.MealPost, 0, len(candidates))
	for _, p := range candidates {
		if geo.Within(center, geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}, radiusKm) {
			matched = append(matched, p)
		}
	}

	if offset >= len(matched) {
		return []models.MealPost{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

// Claim atomically flips a post to claimed. The guarded UPDATE is the
// compare-and-swap: of two racing claimants exactly one matches the
// is_available predicate.
func (r *PostRepo) Claim(ctx context.Context, postID, claimantID int) (models.MealPost, error) {
	var post models.MealPost
	err := r.db.QueryRowxContext(ctx, `UPDATE meal_posts
        SET is_available = FALSE, claimant_id = $2, claimed_at = NOW()
        WHERE id = $1 AND is_available = TRUE AND removed = FALSE
          AND status = $3 AND expires_on >= CURRENT_DATE AND owner_id <> $2
        RETURNING `+postColumns, postID, claimantID, models.StatusApproved).
		StructScan(&post)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.MealPost{}, err
	}

	// The guard matched nothing; read the row to classify the refusal.
	current, err := r.GetPost(ctx, postID)
	if err != nil {
		return models.MealPost{}, err
	}
	switch {
	case current.OwnerID == claimantID:
		return models.MealPost{}, ErrSelfClaim
	case !current.IsAvailable:
		return models.MealPost{}, ErrAlreadyClaimed
	default:
		return models.MealPost{}, ErrNotClaimable
	}
}

// Report records one user's report. The post row is locked for the
// duration so the counter always equals the number of report rows.
func (r *PostRepo) Report(ctx context.Context, postID, reporterID int, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ownerID int
	err = tx.GetContext(ctx, &ownerID, `SELECT owner_id FROM meal_posts WHERE id=$1 FOR UPDATE`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if ownerID == reporterID {
		return ErrSelfReport
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO post_reports (post_id, reporter_id, reason)
        VALUES ($1, $2, $3) ON CONFLICT (post_id, reporter_id) DO NOTHING`, postID, reporterID, reason)
	if err != nil {
		return err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return ErrAlreadyReported
	}

	if _, err := tx.ExecContext(ctx, `UPDATE meal_posts
        SET report_count = report_count + 1, last_report_reason = $2 WHERE id = $1`, postID, reason); err != nil {
		return err
	}
	return tx.Commit()
}

// Moderate settles the moderation status. Re-invocation overwrites status
// and comment (last write wins).
func (r *PostRepo) Moderate(ctx context.Context, postID int, status, comment string) (models.MealPost, error) {
	var post models.MealPost
	err := r.db.QueryRowxContext(ctx, `UPDATE meal_posts SET status = $2, admin_comment = $3
        WHERE id = $1 RETURNING `+postColumns, postID, status, comment).StructScan(&post)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealPost{}, ErrPostNotFound
	}
	return post, err
}

// Remove flags a post as removed by an admin. The row stays for audit and
// report data but is excluded from discovery and claims.
func (r *PostRepo) Remove(ctx context.Context, postID int, comment string) (models.MealPost, error) {
	var post models.MealPost
	err := r.db.QueryRowxContext(ctx, `UPDATE meal_posts SET removed = TRUE, admin_comment = $2
        WHERE id = $1 RETURNING `+postColumns, postID, comment).StructScan(&post)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealPost{}, ErrPostNotFound
	}
	return post, err
}

// ClearReports discards all reports for a post judged unfounded. The
// moderation status is untouched.
func (r *PostRepo) ClearReports(ctx context.Context, postID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE meal_posts
        SET report_count = 0, last_report_reason = '' WHERE id = $1`, postID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_reports WHERE post_id = $1`, postID); err != nil {
		return err
	}
	return tx.Commit()
}

// ReportedQueue returns reported, non-removed posts with the most reported
// first.
func (r *PostRepo) ReportedQueue(ctx context.Context) ([]models.MealPost, error) {
	var posts []models.MealPost
	err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM meal_posts
        WHERE report_count > 0 AND removed = FALSE ORDER BY report_count DESC, created_at DESC`)
	return posts, err
}

// ReportsForPost returns the individual report rows for a post.
func (r *PostRepo) ReportsForPost(ctx context.Context, postID int) ([]models.PostReport, error) {
	var reports []models.PostReport
	err := r.db.SelectContext(ctx, &reports, `SELECT post_id, reporter_id, reason, created_at
        FROM post_reports WHERE post_id = $1 ORDER BY created_at ASC`, postID)
	return reports, err
}

// ListPending returns posts awaiting moderation, regardless of location.
func (r *PostRepo) ListPending(ctx context.Context) ([]models.MealPost, error) {
	var posts []models.MealPost
	err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM meal_posts
        WHERE status = $1 AND removed = FALSE ORDER BY created_at ASC`, models.StatusPending)
	return posts, err
}

// ListAll returns every post, removed ones included, for the admin view
// and the report export.
func (r *PostRepo) ListAll(ctx context.Context) ([]models.MealPost, error) {
	var posts []models.MealPost
	err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM meal_posts ORDER BY created_at DESC`)
	return posts, err
}

// ListMine returns the posts published by a user.
func (r *PostRepo) ListMine(ctx context.Context, ownerID int) ([]models.MealPost, error) {
	var posts []models.MealPost
	err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM meal_posts
        WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	return posts, err
}

// ListClaimedBy returns the posts a user has claimed.
func (r *PostRepo) ListClaimedBy(ctx context.Context, userID int) ([]models.MealPost, error) {
	var posts []models.MealPost
	err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM meal_posts
        WHERE claimant_id = $1 ORDER BY claimed_at DESC`, userID)
	return posts, err
}
