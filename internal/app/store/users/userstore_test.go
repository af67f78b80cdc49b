package users_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/workifyhq/workify/internal/app/store/users"
	"github.com/workifyhq/workify/internal/domain/models"
	"github.com/workifyhq/workify/internal/testutil"
)

func TestRegister_CreatesAccountDocument(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := c.Users.Register(ctx, users.RegisterParams{
		Username: "alice",
		Role:     models.RoleVolunteer,
		Password: "password123",
		Profile: users.Profile{
			Name:    "Alice",
			Surname: "Smith",
			Email:   "Alice@Example.com",
			Skills:  []string{"first-aid"},
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if u.Username != "alice" {
		t.Errorf("Username: got %q, want %q", u.Username, "alice")
	}
	if u.Role != models.RoleVolunteer {
		t.Errorf("Role: got %q, want %q", u.Role, models.RoleVolunteer)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("Email not normalized: got %q", u.Email)
	}
	if !strings.HasPrefix(u.Token, "vol_") {
		t.Errorf("Token: got %q, want vol_ prefix", u.Token)
	}
	if u.PasswordHash == "" || u.PasswordHash == "password123" {
		t.Errorf("PasswordHash looks wrong: %q", u.PasswordHash)
	}
	if len(u.Salt) != 32 {
		t.Errorf("Salt length: got %d hex chars, want 32", len(u.Salt))
	}
	if !u.IsAvailable {
		t.Error("new volunteer should be available")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	// The document must be on disk at the deterministic path.
	mgr := c.Users.Manager("alice", models.RoleVolunteer)
	stored, err := mgr.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile after Register failed: %v", err)
	}
	if stored.Token != u.Token {
		t.Errorf("stored Token: got %q, want %q", stored.Token, u.Token)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c.CreateVolunteer(ctx, "alice")

	// Same name in the other role partition must also be rejected:
	// usernames are corpus-wide identities.
	_, err := c.Users.Register(ctx, users.RegisterParams{
		Username: "alice",
		Role:     models.RoleOrganizer,
		Password: "different-pass",
	})
	if !errors.Is(err, users.ErrUsernameTaken) {
		t.Fatalf("Register duplicate: got %v, want ErrUsernameTaken", err)
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := c.Users.Register(ctx, users.RegisterParams{
		Username: "   ",
		Role:     models.RoleVolunteer,
		Password: "password123",
	}); err == nil {
		t.Error("Register accepted a blank username")
	}
	if _, err := c.Users.Register(ctx, users.RegisterParams{
		Username: "bob",
		Role:     "ADMIN",
		Password: "password123",
	}); err == nil {
		t.Error("Register accepted an unknown role")
	}
}

func TestManager_Verify(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c.CreateUser(ctx, "alice", models.RoleVolunteer, "password123")
	mgr := c.Users.Manager("alice", models.RoleVolunteer)

	if !mgr.Verify(ctx, "password123") {
		t.Error("Verify rejected the correct password")
	}
	if mgr.Verify(ctx, "password124") {
		t.Error("Verify accepted a wrong password")
	}

	ghost := c.Users.Manager("nobody", models.RoleVolunteer)
	if ghost.Verify(ctx, "password123") {
		t.Error("Verify accepted a password for a missing account")
	}
}

func TestManager_VerifyToken(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := c.CreateVolunteer(ctx, "alice")
	mgr := c.Users.Manager("alice", models.RoleVolunteer)

	if !mgr.VerifyToken(ctx, u.Token) {
		t.Error("VerifyToken rejected the current token")
	}
	if mgr.VerifyToken(ctx, "vol_0000") {
		t.Error("VerifyToken accepted a stale token")
	}
	if mgr.VerifyToken(ctx, "") {
		t.Error("VerifyToken accepted an empty token")
	}
}

func TestManager_ChangePassword(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c.CreateUser(ctx, "alice", models.RoleVolunteer, "old-password")
	mgr := c.Users.Manager("alice", models.RoleVolunteer)
	before, err := mgr.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Wrong old password: no side effect, false.
	ok, err := mgr.ChangePassword(ctx, "wrong-old", "new-password")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if ok {
		t.Error("ChangePassword accepted a wrong old password")
	}
	after, err := mgr.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.PasswordHash != before.PasswordHash || after.Salt != before.Salt {
		t.Error("failed ChangePassword mutated the stored credentials")
	}

	// Correct old password: hash and salt both rotate.
	ok, err = mgr.ChangePassword(ctx, "old-password", "new-password")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if !ok {
		t.Fatal("ChangePassword rejected the correct old password")
	}
	after, err = mgr.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.Salt == before.Salt {
		t.Error("expected a fresh salt after password change")
	}
	if after.PasswordHash == before.PasswordHash {
		t.Error("expected a fresh hash after password change")
	}
	if !mgr.Verify(ctx, "new-password") {
		t.Error("new password does not verify")
	}
	if mgr.Verify(ctx, "old-password") {
		t.Error("old password still verifies")
	}
}

func TestManager_ChangePassword_MissingAccount(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := c.Users.Manager("nobody", models.RoleVolunteer)
	if _, err := mgr.ChangePassword(ctx, "a", "b"); !errors.Is(err, users.ErrNotFound) {
		t.Errorf("ChangePassword on missing account: got %v, want ErrNotFound", err)
	}
}

func TestManager_RotateToken(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := c.CreateVolunteer(ctx, "alice")
	mgr := c.Users.Manager("alice", models.RoleVolunteer)

	token, err := mgr.RotateToken(ctx)
	if err != nil {
		t.Fatalf("RotateToken failed: %v", err)
	}
	if token == u.Token {
		t.Error("RotateToken returned the previous token")
	}
	if !strings.HasPrefix(token, "vol_") {
		t.Errorf("rotated token: got %q, want vol_ prefix", token)
	}
	if mgr.VerifyToken(ctx, u.Token) {
		t.Error("previous token still verifies after rotation")
	}
	if !mgr.VerifyToken(ctx, token) {
		t.Error("rotated token does not verify")
	}
}

func TestManager_UpdateProfile(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c.CreateVolunteer(ctx, "alice")
	mgr := c.Users.Manager("alice", models.RoleVolunteer)

	name := "  Alicia "
	skills := []string{"gardening", "cooking"}
	avail := false
	updated, err := mgr.UpdateProfile(ctx, users.ProfilePatch{
		Name:        &name,
		Skills:      &skills,
		IsAvailable: &avail,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Alicia" {
		t.Errorf("Name: got %q, want %q", updated.Name, "Alicia")
	}
	if len(updated.Skills) != 2 || updated.Skills[0] != "gardening" {
		t.Errorf("Skills: got %v, want %v", updated.Skills, skills)
	}
	if updated.IsAvailable {
		t.Error("IsAvailable: got true, want false")
	}
	// Untouched fields survive the merge.
	if updated.Surname != "alice" {
		t.Errorf("Surname changed by unrelated patch: got %q", updated.Surname)
	}
	if updated.Token == "" || updated.PasswordHash == "" {
		t.Error("credentials lost during profile update")
	}

	stored, err := mgr.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Alicia" {
		t.Errorf("stored Name: got %q, want %q", stored.Name, "Alicia")
	}
}

func TestMutate_MissingAccount(t *testing.T) {
	c := testutil.NewCorpus(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := c.Users.Mutate(ctx, "nobody", models.RoleVolunteer, func(u *models.User) {})
	if !errors.Is(err, users.ErrNotFound) {
		t.Errorf("Mutate on missing account: got %v, want ErrNotFound", err)
	}
}
