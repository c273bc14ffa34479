package account

import (
	"context"
	"fmt"
)

func strPtr(s string) *string { return &s }

// demoAccounts are the demonstration users loaded on startup when seeding is
// enabled. Passwords are hashed at seed time so the store never holds
// plaintext, whatever hasher is in use.
var demoAccounts = []struct {
	acct     Account
	password string
}{
	{
		acct: Account{
			UserID:     "USR001",
			Email:      "doctor@chu-ouaga.bf",
			FullName:   "Dr. Ouedraogo Amadou",
			Role:       RoleDoctor,
			HospitalID: "BF-CHU-YALG",
			Department: strPtr("Emergency"),
			IsActive:   true,
		},
		password: "Doctor123!",
	},
	{
		acct: Account{
			UserID:     "USR002",
			Email:      "nurse@chu-ouaga.bf",
			FullName:   "Zongo Fatoumata",
			Role:       RoleNurse,
			HospitalID: "BF-CHU-YALG",
			Department: strPtr("Pediatrics"),
			IsActive:   true,
		},
		password: "Nurse123!",
	},
	{
		acct: Account{
			UserID:     "USR003",
			Email:      "admin@danaya.bf",
			FullName:   "Administrateur Système",
			Role:       RoleAdmin,
			HospitalID: "BF-CHU-YALG",
			Department: strPtr("IT"),
			IsActive:   true,
		},
		password: "Admin123!",
	},
	{
		acct: Account{
			UserID:     "USR004",
			Email:      "doctor@chu-bobo.bf",
			FullName:   "Dr. Kone Seydou",
			Role:       RoleDoctor,
			HospitalID: "BF-CHU-BOBO",
			Department: strPtr("Surgery"),
			IsActive:   true,
		},
		password: "Doctor123!",
	},
}

// Seed inserts the demonstration accounts, skipping any email that already
// exists. It returns the number of accounts actually inserted.
func Seed(ctx context.Context, repo Repository, hasher PasswordHasher) (int, error) {
	inserted := 0
	for _, d := range demoAccounts {
		hash, err := hasher.Hash(d.password)
		if err != nil {
			return inserted, fmt.Errorf("hash seed password for %s: %w", d.acct.Email, err)
		}
		acct := d.acct
		acct.HashedPassword = hash
		if err := repo.InsertIfAbsent(ctx, &acct); err != nil {
			if err == ErrDuplicateEmail {
				continue
			}
			return inserted, fmt.Errorf("seed account %s: %w", d.acct.Email, err)
		}
		inserted++
	}
	return inserted, nil
}
