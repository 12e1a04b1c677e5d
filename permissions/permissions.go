// Package permissions holds the authorization rules applied after authentication.
package permissions

import (
	"fmt"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// Rule allows an account by returning nil.
type Rule func(acct *models.Account) error

// OwnerOnly allows only the account whose id is ownerID.
func OwnerOnly(ownerID uint) Rule {
	return func(acct *models.Account) error {
		if acct.ID != ownerID {
			return fmt.Errorf("%w: account %d is not owner %d", utils.ErrUnauthorized, acct.ID, ownerID)
		}
		return nil
	}
}

// StaffOnly allows only staff accounts.
func StaffOnly() Rule {
	return func(acct *models.Account) error {
		if !acct.IsStaff {
			return fmt.Errorf("%w: account %d is not staff", utils.ErrUnauthorized, acct.ID)
		}
		return nil
	}
}

// Check evaluates rules in order and stops at the first denial.
// A nil account is always denied.
func Check(acct *models.Account, rules ...Rule) error {
	if acct == nil {
		return fmt.Errorf("%w: no account", utils.ErrUnauthorized)
	}
	for _, rule := range rules {
		if err := rule(acct); err != nil {
			return err
		}
	}
	return nil
}
