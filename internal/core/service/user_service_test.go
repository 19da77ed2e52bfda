package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

func newUserService(store *stubStore, notifier *stubNotifier, session *stubSession) *UserService {
	return NewUserService(store, notifier, session, nopLogger)
}

func TestUserService_LoadSeedsDefaultAdministrator(t *testing.T) {
	store := newStubStore()
	svc := newUserService(store, newStubNotifier(), &stubSession{})

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	admin, ok := svc.GetByID(defaultUserID)
	if !ok {
		t.Fatalf("default administrator not seeded")
	}
	if admin.Name != defaultUserName || admin.Document != defaultUserDocument {
		t.Fatalf("unexpected seed: %+v", admin)
	}
	if !admin.IsActive() {
		t.Fatalf("seeded administrator must be active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(defaultUserPassword)); err != nil {
		t.Fatalf("seeded password hash does not verify: %v", err)
	}

	// The seed must be mirrored to storage so login sees it.
	if _, ok := store.data[ports.KeyUsers]; !ok {
		t.Fatalf("seed not persisted")
	}
}

func TestUserService_LoadCorruptBlobReseeds(t *testing.T) {
	store := newStubStore()
	store.data[ports.KeyUsers] = []byte("{corrupt")
	notifier := newStubNotifier()
	svc := newUserService(store, notifier, &stubSession{})

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, ok := svc.GetByID(defaultUserID); !ok {
		t.Fatalf("expected reseed after corrupt blob")
	}
	if notifier.count(domain.NotificationError) == 0 {
		t.Fatalf("expected an error notification for the corrupt blob")
	}
}

func TestUserService_LoadKeepsExistingCollection(t *testing.T) {
	store := newStubStore()
	existing := []domain.User{testUser(t, "user_42", "11122233344", "pw", domain.StatusActive)}
	raw, _ := json.Marshal(existing)
	store.data[ports.KeyUsers] = raw

	svc := newUserService(store, newStubNotifier(), &stubSession{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, ok := svc.GetByID("user_42"); !ok {
		t.Fatalf("existing user lost on load")
	}
	if _, ok := svc.GetByID(defaultUserID); ok {
		t.Fatalf("must not seed on top of an existing collection")
	}
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name:     "Alice",
		Document: "11111111111",
		Password: "hunter22",
		Status:   domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")); err != nil {
		t.Fatalf("password hash does not verify: %v", err)
	}
}

func TestUserService_CreateDuplicateDocument(t *testing.T) {
	notifier := newStubNotifier()
	svc := newUserService(newStubStore(), notifier, &stubSession{})

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Bob", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if !errors.Is(err, domain.ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}
	if len(svc.List(ports.UserFilter{})) != 1 {
		t.Fatalf("failed create must not change the collection")
	}
	if notifier.count(domain.NotificationError) != 1 {
		t.Fatalf("expected an error notification")
	}
}

func TestUserService_InactiveDocumentStillBlocksReuse(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	alice, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Soft-deleted records keep their document reserved.
	_, err = svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Bob", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if !errors.Is(err, domain.ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument against inactive record, got %v", err)
	}
}

func TestUserService_UpdateMergesPartialInput(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := user.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	name := "Alice Updated"
	updated, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.Document != "11111111111" {
		t.Fatalf("untouched field changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(before) {
		t.Fatalf("UpdatedAt not bumped")
	}
	if !updated.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("CreatedAt must never change")
	}
}

func TestUserService_UpdateDuplicateDocument(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	}); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Bob", Document: "22222222222", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	taken := "11111111111"
	if _, err := svc.Update(context.Background(), bob.ID, ports.UpdateUserInput{Document: &taken}); !errors.Is(err, domain.ErrDuplicateDocument) {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}

	// Re-saving your own document is not a conflict.
	own := "22222222222"
	if _, err := svc.Update(context.Background(), bob.ID, ports.UpdateUserInput{Document: &own}); err != nil {
		t.Fatalf("same-record document update: %v", err)
	}
}

func TestUserService_UpdatePropagatesToSession(t *testing.T) {
	session := &stubSession{}
	svc := newUserService(newStubStore(), newStubNotifier(), session)

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Alice Renamed"
	if _, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(session.updated) != 1 || session.updated[0].Name != name {
		t.Fatalf("session sink not notified: %+v", session.updated)
	}
}

func TestUserService_DeleteIsSoft(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	kept, ok := svc.GetByID(user.ID)
	if !ok {
		t.Fatalf("soft delete must keep the record")
	}
	if kept.Status != domain.StatusInactive {
		t.Fatalf("expected inactive, got %s", kept.Status)
	}
	if len(svc.Active()) != 0 {
		t.Fatalf("deleted user still listed as active")
	}

	// Deleting an already inactive user is harmless.
	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestUserService_DeleteLoggedInUserRefused(t *testing.T) {
	session := &stubSession{}
	notifier := newStubNotifier()
	svc := newUserService(newStubStore(), notifier, session)

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	session.currentID = user.ID

	if err := svc.Delete(context.Background(), user.ID); !errors.Is(err, domain.ErrUserLoggedIn) {
		t.Fatalf("expected ErrUserLoggedIn, got %v", err)
	}

	kept, _ := svc.GetByID(user.ID)
	if kept.Status != domain.StatusActive {
		t.Fatalf("refused delete must not change the record")
	}
}

func TestUserService_DeleteUnknown(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	if err := svc.Delete(context.Background(), "user_ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_LoadStorageFailureSurfaces(t *testing.T) {
	store := newStubStore()
	store.getErr = errors.New("backend down")
	notifier := newStubNotifier()
	svc := newUserService(store, notifier, &stubSession{})

	if err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if notifier.count(domain.NotificationError) != 1 {
		t.Fatalf("expected an error notification")
	}
}

func TestUserService_PersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	store := newStubStore()
	notifier := newStubNotifier()
	svc := newUserService(store, notifier, &stubSession{})

	store.setErr = errors.New("backend down")
	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Document: "11111111111", Password: "pw123456", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("create must succeed in memory: %v", err)
	}

	// The record is usable despite the failed mirror, and the failure is
	// reported through a notification.
	if _, ok := svc.GetByID(user.ID); !ok {
		t.Fatalf("record lost after persist failure")
	}
	if notifier.count(domain.NotificationError) != 1 {
		t.Fatalf("expected an error notification for the failed save")
	}
}

func TestUserService_ListFiltersAndSorts(t *testing.T) {
	svc := newUserService(newStubStore(), newStubNotifier(), &stubSession{})

	mk := func(name, doc string) *domain.User {
		u, err := svc.Create(context.Background(), ports.CreateUserInput{
			Name: name, Document: doc, Password: "pw123456", Status: domain.StatusActive,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		time.Sleep(2 * time.Millisecond)
		return u
	}

	mk("Maria Silva", "11111111111")
	bob := mk("Bob Jones", "22222222222")
	carol := mk("Carla Mendes", "33333333333")

	if err := svc.Delete(context.Background(), bob.ID); err != nil {
		t.Fatalf("delete bob: %v", err)
	}

	// Case-insensitive name search.
	got := svc.List(ports.UserFilter{Search: "maria"})
	if len(got) != 1 || got[0].Name != "Maria Silva" {
		t.Fatalf("name search: %+v", got)
	}

	// Document substring search.
	got = svc.List(ports.UserFilter{Search: "333"})
	if len(got) != 1 || got[0].ID != carol.ID {
		t.Fatalf("document search: %+v", got)
	}

	// Status filter.
	got = svc.List(ports.UserFilter{Status: domain.StatusInactive})
	if len(got) != 1 || got[0].ID != bob.ID {
		t.Fatalf("status filter: %+v", got)
	}

	// Default order is newest first.
	all := svc.List(ports.UserFilter{})
	if len(all) != 3 || all[0].ID != carol.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
}
