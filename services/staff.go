package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
)

// PromoteStaff marks the named accounts as staff. Names match case-insensitively
// and unknown names are skipped.
func PromoteStaff(ctx context.Context, db *gorm.DB, usernames []string) (int64, error) {
	names := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u = strings.ToLower(strings.TrimSpace(u)); u != "" {
			names = append(names, u)
		}
	}
	if len(names) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Model(&models.Account{}).
		Where("LOWER(username) IN ?", names).
		Where("is_staff = ?", false).
		Update("is_staff", true)
	if res.Error != nil {
		return 0, fmt.Errorf("promote staff: %w", res.Error)
	}
	return res.RowsAffected, nil
}
