package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"foodshare-service/internal/models"
)

// StatsRepository computes the reporting rollups on demand. Pure reads,
// no state of its own.
type StatsRepository interface {
	Collect(ctx context.Context, topN int) (models.Statistics, error)
}

// StatsRepo is a sqlx implementation of StatsRepository.
type StatsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo constructs a StatsRepo.
func NewStatsRepo(db *sqlx.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Collect gathers the statistics snapshot.
func (r *StatsRepo) Collect(ctx context.Context, topN int) (models.Statistics, error) {
	var stats models.Statistics

	err := r.db.GetContext(ctx, &stats.Posts, `SELECT
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = 'APPROVED' AND is_available AND NOT removed AND expires_on >= CURRENT_DATE) AS active,
        COUNT(*) FILTER (WHERE NOT is_available) AS claimed,
        COUNT(*) FILTER (WHERE report_count > 0) AS reported,
        COUNT(*) FILTER (WHERE removed) AS removed,
        COUNT(*) FILTER (WHERE expires_on < CURRENT_DATE) AS expired
        FROM meal_posts`)
	if err != nil {
		return models.Statistics{}, err
	}

	if err := r.db.SelectContext(ctx, &stats.PostsByCity, `SELECT city, COUNT(*) AS count
        FROM meal_posts GROUP BY city ORDER BY count DESC, city ASC`); err != nil {
		return models.Statistics{}, err
	}

	if err := r.db.SelectContext(ctx, &stats.PostsByDay, `SELECT date_trunc('day', created_at) AS day, COUNT(*) AS count
        FROM meal_posts
        WHERE created_at >= CURRENT_DATE - INTERVAL '6 days'
        GROUP BY day ORDER BY day ASC`); err != nil {
		return models.Statistics{}, err
	}

	if topN <= 0 {
		topN = 10
	}
	if err := r.db.SelectContext(ctx, &stats.TopPosters, `SELECT owner_id, owner_name, COUNT(*) AS count
        FROM meal_posts GROUP BY owner_id, owner_name ORDER BY count DESC, owner_id ASC LIMIT $1`, topN); err != nil {
		return models.Statistics{}, err
	}

	if err := r.db.GetContext(ctx, &stats.ActiveConversations,
		`SELECT COUNT(*) FROM conversations WHERE active = TRUE`); err != nil {
		return models.Statistics{}, err
	}

	if err := r.db.GetContext(ctx, &stats.MessageCount, `SELECT COUNT(*) FROM chat_messages`); err != nil {
		return models.Statistics{}, err
	}

	return stats, nil
}
