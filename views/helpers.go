package views

import (
	"context"
	"fmt"
	"time"

	"github.com/kwatanabe/beytrack/internal/middleware"
	users "github.com/kwatanabe/beytrack/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}

func FormatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

func FormatRate(rate float64) string {
	return fmt.Sprintf("%.3f", rate)
}

func FormatClock(t time.Time) string {
	return t.Local().Format("15:04")
}

func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
