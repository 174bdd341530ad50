package services

import (
	"testing"

	"prodledger/internal/models"
	"prodledger/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Producer@Studio.test", "password123", "Alex", "Reyes", models.RoleManager)
		testutil.AssertNoError(t, err)

		if user.Email != "producer@studio.test" {
			t.Errorf("email should be lowercased, got %s", user.Email)
		}
		if user.Role != models.RoleManager {
			t.Errorf("expected manager role, got %s", user.Role)
		}
		if user.Password == "password123" {
			t.Error("password must be hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("producer@studio.test", "password123", "", "", models.RoleManager)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("producer@studio.test", "password456", "", "", models.RoleManager)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("unknown_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("producer@studio.test", "password123", "", "", models.Role("director"))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestRegisterUser(t *testing.T) {
	t.Run("first_account_bootstraps_master_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.RegisterUser("founder@studio.test", "password123", "", "")
		testutil.AssertNoError(t, err)

		if user.Role != models.RoleMasterOwner {
			t.Errorf("expected master_owner for the first account, got %s", user.Role)
		}
	})

	t.Run("later_accounts_are_managers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.RegisterUser("founder@studio.test", "password123", "", "")
		testutil.AssertNoError(t, err)

		user, err := svc.RegisterUser("producer@studio.test", "password123", "", "")
		testutil.AssertNoError(t, err)

		if user.Role != models.RoleManager {
			t.Errorf("expected manager, got %s", user.Role)
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_counter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created, err := svc.CreateUser("producer@studio.test", "password123", "", "", models.RoleManager)
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("producer@studio.test", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		user, err := svc.AttemptLogin("producer@studio.test", "password123")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Error("expected the same user back")
		}
		if user.FailedLoginAttempts != 0 {
			t.Errorf("failed attempts should reset, got %d", user.FailedLoginAttempts)
		}
		if user.LastLoginAt == nil {
			t.Error("last login time should be recorded")
		}
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		_, err := svc.CreateUser("producer@studio.test", "password123", "", "", models.RoleManager)
		testutil.AssertNoError(t, err)

		for i := 0; i < 5; i++ {
			_, err = svc.AttemptLogin("producer@studio.test", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the correct password is refused while locked.
		_, err = svc.AttemptLogin("producer@studio.test", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("unknown_email_is_invalid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@studio.test", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
