package service_test

import (
	"context"
	"sync"
	"testing"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/config"
	"procflow/internal/models"
	"procflow/internal/service"
	"procflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   *service.Service
	admin access.Identity
	alice access.Identity
	bob   access.Identity
	dept  models.Department
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	f := &fixture{
		db:    db,
		svc:   service.New(db, testutil.Logger(t), service.WithHashCost(bcrypt.MinCost)),
		admin: testutil.SeedUser(t, db, "root", models.RoleAdmin),
		alice: testutil.SeedUser(t, db, "alice", models.RoleUser),
		bob:   testutil.SeedUser(t, db, "bob", models.RoleUser),
	}
	f.dept = testutil.SeedDepartment(t, db, f.alice.UserID, "Sales")
	return f
}

func (f *fixture) chatIn(t *testing.T, status models.Status) uint {
	t.Helper()
	return testutil.SeedChat(t, f.db, f.dept.ID, "chat-"+string(status), status).ID
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "err = %v", err)
}

func TestCreateChatStartsInDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.CreateChat(ctx, f.alice, f.dept.ID, "Invoice approval", "chat-pw")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, view.Status)
	assert.Equal(t, models.StatusDraft, testutil.StatusOf(t, f.db, view.ID))
	assert.NotEqual(t, "chat-pw", view.PasswordHash)

	got, err := f.svc.GetChat(ctx, f.alice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
	assert.Nil(t, got.LatestVersion)
	assert.Equal(t, f.dept.ID, got.DepartmentID)
}

func TestCreateChatDepartmentChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateChat(ctx, f.bob, f.dept.ID, "Sneaky", "pw")
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.CreateChat(ctx, f.admin, f.dept.ID+99, "Lost", "pw")
	requireKind(t, err, apperr.KindValidation)
	assert.Contains(t, err.Error(), "Department not found")

	_, err = f.svc.CreateChat(ctx, f.alice, f.dept.ID, "   ", "pw")
	requireKind(t, err, apperr.KindValidation)

	assert.Zero(t, testutil.Count(t, f.db, &models.Chat{}, "1 = 1"))
	assert.Zero(t, testutil.Count(t, f.db, &models.ChatStatus{}, "1 = 1"))
}

func TestCreateDepartmentUnknownUserIsValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateDepartment(context.Background(), f.admin, 4242, "Ghost", "pw")
	requireKind(t, err, apperr.KindValidation)
	assert.Contains(t, err.Error(), "User not found")
}

func TestCreateDepartmentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateDepartment(ctx, f.bob, f.alice.UserID, "Hijack", "pw")
	requireKind(t, err, apperr.KindForbidden)

	d, err := f.svc.CreateDepartment(ctx, f.bob, 0, "Support", "pw")
	require.NoError(t, err)
	assert.Equal(t, f.bob.UserID, d.UserID)

	_, err = f.svc.CreateDepartment(ctx, f.bob, 0, "Support", "pw")
	requireKind(t, err, apperr.KindConflict)

	d, err = f.svc.CreateDepartment(ctx, f.admin, f.bob.UserID, "Logistics", "pw")
	require.NoError(t, err)
	assert.Equal(t, f.bob.UserID, d.UserID)

	mine, err := f.svc.ListDepartments(ctx, f.bob)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.ListDepartments(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat := f.chatIn(t, models.StatusDraft)
	view, err := f.svc.TransitionStatus(ctx, f.alice, chat, "pending_review")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, view.Status)
	assert.False(t, view.CanEdit)

	chat = f.chatIn(t, models.StatusNeedsRevision)
	_, err = f.svc.TransitionStatus(ctx, f.alice, chat, "pending_review")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, testutil.StatusOf(t, f.db, chat))
}

func TestAdminTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat := f.chatIn(t, models.StatusPendingReview)
	_, err := f.svc.TransitionStatus(ctx, f.admin, chat, "needs_revision")
	require.NoError(t, err)

	chat = f.chatIn(t, models.StatusPendingReview)
	_, err = f.svc.TransitionStatus(ctx, f.admin, chat, "completed")
	require.NoError(t, err)
	view, err := f.svc.TransitionStatus(ctx, f.admin, chat, "archived")
	require.NoError(t, err)
	assert.Empty(t, view.Allowed)
	assert.Equal(t, models.StatusArchived, testutil.StatusOf(t, f.db, chat))
}

func TestRejectedTransitionsLeaveStatusUnchanged(t *testing.T) {
	cases := []struct {
		name   string
		actor  func(f *fixture) access.Identity
		from   models.Status
		target string
	}{
		{"user skips review", func(f *fixture) access.Identity { return f.alice }, models.StatusDraft, "completed"},
		{"user approves own", func(f *fixture) access.Identity { return f.alice }, models.StatusPendingReview, "completed"},
		{"user archives", func(f *fixture) access.Identity { return f.alice }, models.StatusCompleted, "archived"},
		{"admin submits draft", func(f *fixture) access.Identity { return f.admin }, models.StatusDraft, "pending_review"},
		{"admin reopens archived", func(f *fixture) access.Identity { return f.admin }, models.StatusArchived, "draft"},
		{"admin archives review", func(f *fixture) access.Identity { return f.admin }, models.StatusPendingReview, "archived"},
		{"same state", func(f *fixture) access.Identity { return f.alice }, models.StatusDraft, "draft"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			chat := f.chatIn(t, tc.from)

			_, err := f.svc.TransitionStatus(context.Background(), tc.actor(f), chat, tc.target)
			requireKind(t, err, apperr.KindForbidden)
			assert.Equal(t, tc.from, testutil.StatusOf(t, f.db, chat))
			assert.Zero(t, testutil.Count(t, f.db, &models.AuditLog{}, "action = ?", "status_change"))
		})
	}
}

func TestTransitionUnknownStatusAndStranger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusDraft)

	_, err := f.svc.TransitionStatus(ctx, f.alice, chat, "done")
	requireKind(t, err, apperr.KindValidation)

	_, err = f.svc.TransitionStatus(ctx, f.bob, chat, "pending_review")
	requireKind(t, err, apperr.KindForbidden)
	assert.Equal(t, models.StatusDraft, testutil.StatusOf(t, f.db, chat))

	_, err = f.svc.TransitionStatus(ctx, f.alice, chat+1000, "pending_review")
	requireKind(t, err, apperr.KindNotFound)
}

func TestTransitionMissingStatusRowIsNotFound(t *testing.T) {
	f := newFixture(t)
	chat := f.chatIn(t, models.StatusDraft)
	require.NoError(t, f.db.Where("chat_id = ?", chat).Delete(&models.ChatStatus{}).Error)

	_, err := f.svc.TransitionStatus(context.Background(), f.alice, chat, "pending_review")
	requireKind(t, err, apperr.KindNotFound)
}

func TestConcurrentTransitionsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	chat := f.chatIn(t, models.StatusPendingReview)

	targets := []string{"completed", "needs_revision"}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			_, errs[i] = f.svc.TransitionStatus(context.Background(), f.admin, chat, target)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)

	final := testutil.StatusOf(t, f.db, chat)
	assert.Contains(t, []models.Status{models.StatusCompleted, models.StatusNeedsRevision}, final)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.AuditLog{}, "action = ?", "status_change"))
}

func TestConcurrentSubmitForReview(t *testing.T) {
	f := newFixture(t)
	chat := f.chatIn(t, models.StatusDraft)

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.TransitionStatus(context.Background(), f.alice, chat, "pending_review")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, models.StatusPendingReview, testutil.StatusOf(t, f.db, chat))
}

func TestCreateVersionRespectsEditPredicate(t *testing.T) {
	cases := []struct {
		status  models.Status
		userOK  bool
		adminOK bool
	}{
		{models.StatusDraft, true, true},
		{models.StatusPendingReview, false, true},
		{models.StatusNeedsRevision, true, true},
		{models.StatusCompleted, false, false},
		{models.StatusArchived, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			chat := f.chatIn(t, tc.status)

			_, err := f.svc.CreateVersion(ctx, f.alice, chat, "step 1", "graph TD; A-->B")
			if tc.userOK {
				assert.NoError(t, err)
			} else {
				requireKind(t, err, apperr.KindForbidden)
			}

			_, err = f.svc.CreateVersion(ctx, f.admin, chat, "step 1 (admin)", "")
			if tc.adminOK {
				assert.NoError(t, err)
			} else {
				requireKind(t, err, apperr.KindForbidden)
			}

			want := 0
			if tc.userOK {
				want++
			}
			if tc.adminOK {
				want++
			}
			assert.Equal(t, int64(want), testutil.Count(t, f.db, &models.ProcessVersion{}, "chat_id = ?", chat))
		})
	}
}

func TestCreateVersionBlankTextWritesNothing(t *testing.T) {
	f := newFixture(t)
	chat := f.chatIn(t, models.StatusDraft)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.CreateVersion(context.Background(), f.alice, chat, text, "graph TD")
		requireKind(t, err, apperr.KindValidation)
	}
	assert.Zero(t, testutil.Count(t, f.db, &models.ProcessVersion{}, "1 = 1"))
}

func TestVersionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusDraft)

	for _, text := range []string{"v1", "v2", "v3"} {
		_, err := f.svc.CreateVersion(ctx, f.alice, chat, text, "")
		require.NoError(t, err)
	}

	versions, err := f.svc.ListVersions(ctx, f.alice, chat)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "v3", versions[0].ProcessText)
	assert.Equal(t, "v1", versions[2].ProcessText)

	view, err := f.svc.GetChat(ctx, f.alice, chat)
	require.NoError(t, err)
	require.NotNil(t, view.LatestVersion)
	assert.Equal(t, "v3", view.LatestVersion.ProcessText)
}

func TestStrangerDeniedOnChatResources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusDraft)

	_, err := f.svc.ListVersions(ctx, f.bob, chat)
	requireKind(t, err, apperr.KindForbidden)
	_, err = f.svc.CreateVersion(ctx, f.bob, chat, "mine now", "")
	requireKind(t, err, apperr.KindForbidden)
	_, err = f.svc.ListComments(ctx, f.bob, chat)
	requireKind(t, err, apperr.KindForbidden)
	_, err = f.svc.AddComment(ctx, f.bob, chat, "hello")
	requireKind(t, err, apperr.KindForbidden)
	_, err = f.svc.GetChat(ctx, f.bob, chat)
	requireKind(t, err, apperr.KindForbidden)
	_, err = f.svc.ListHistory(ctx, f.bob, chat)
	requireKind(t, err, apperr.KindForbidden)
	err = f.svc.DeleteChat(ctx, f.bob, chat)
	requireKind(t, err, apperr.KindForbidden)

	assert.Zero(t, testutil.Count(t, f.db, &models.ProcessVersion{}, "1 = 1"))
	assert.Zero(t, testutil.Count(t, f.db, &models.Comment{}, "1 = 1"))

	chats, err := f.svc.ListChats(ctx, f.bob, 0)
	require.NoError(t, err)
	assert.Empty(t, chats)
	_, err = f.svc.ListChats(ctx, f.bob, f.dept.ID)
	requireKind(t, err, apperr.KindForbidden)
}

func TestAddCommentEscapesMarkup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusPendingReview)

	c, err := f.svc.AddComment(ctx, f.admin, chat, "  <script>alert(1)</script>  ")
	require.NoError(t, err)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", c.Text)
	assert.Equal(t, models.RoleAdmin, c.AuthorRole)

	_, err = f.svc.AddComment(ctx, f.alice, chat, `"quoted" & 'single'`)
	require.NoError(t, err)

	comments, err := f.svc.ListComments(ctx, f.alice, chat)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", comments[0].Text)
	assert.Equal(t, "&#34;quoted&#34; &amp; &#39;single&#39;", comments[1].Text)
	assert.Equal(t, models.RoleUser, comments[1].AuthorRole)

	_, err = f.svc.AddComment(ctx, f.alice, chat, " \t ")
	requireKind(t, err, apperr.KindValidation)
}

func TestHistoryRecordsMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.CreateChat(ctx, f.alice, f.dept.ID, "Hiring", "pw")
	require.NoError(t, err)
	_, err = f.svc.CreateVersion(ctx, f.alice, view.ID, "post job", "")
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(ctx, f.alice, view.ID, "pending_review")
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, f.admin, view.ID, "looks fine")
	require.NoError(t, err)

	logs, err := f.svc.ListHistory(ctx, f.alice, view.ID)
	require.NoError(t, err)
	var actions []string
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{"create", "version", "status_change", "comment"}, actions)
	assert.Equal(t, "draft -> pending_review", logs[2].Details)
}

func TestDeleteDepartmentCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusDraft)
	_, err := f.svc.CreateVersion(ctx, f.alice, chat, "v1", "")
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, f.alice, chat, "note")
	require.NoError(t, err)

	err = f.svc.DeleteDepartment(ctx, f.bob, f.dept.ID)
	requireKind(t, err, apperr.KindForbidden)

	require.NoError(t, f.svc.DeleteDepartment(ctx, f.alice, f.dept.ID))
	assert.Zero(t, testutil.Count(t, f.db, &models.Chat{}, "1 = 1"))
	assert.Zero(t, testutil.Count(t, f.db, &models.ChatStatus{}, "1 = 1"))
	assert.Zero(t, testutil.Count(t, f.db, &models.ProcessVersion{}, "1 = 1"))
	assert.Zero(t, testutil.Count(t, f.db, &models.Comment{}, "1 = 1"))

	_, err = f.svc.GetChat(ctx, f.alice, chat)
	requireKind(t, err, apperr.KindNotFound)
}

func TestUnlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusDraft)

	assert.NoError(t, f.svc.UnlockChat(ctx, f.alice, chat, "chat-draft-pw"))
	requireKind(t, f.svc.UnlockChat(ctx, f.alice, chat, "nope"), apperr.KindForbidden)
	requireKind(t, f.svc.UnlockChat(ctx, f.bob, chat, "chat-draft-pw"), apperr.KindForbidden)

	assert.NoError(t, f.svc.UnlockDepartment(ctx, f.alice, f.dept.ID, "Sales-pw"))
	requireKind(t, f.svc.UnlockDepartment(ctx, f.alice, f.dept.ID, "bad"), apperr.KindForbidden)
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateUser(ctx, f.alice, service.NewUser{Name: "carol", Password: "secret1"})
	requireKind(t, err, apperr.KindForbidden)

	u, err := f.svc.CreateUser(ctx, f.admin, service.NewUser{Name: "carol", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = f.svc.CreateUser(ctx, f.admin, service.NewUser{Name: "carol", Password: "secret2"})
	requireKind(t, err, apperr.KindConflict)
	_, err = f.svc.CreateUser(ctx, f.admin, service.NewUser{Name: "dave", Password: "secret1", Role: "owner"})
	requireKind(t, err, apperr.KindValidation)

	id, err := f.svc.Authenticate(ctx, "carol", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)

	_, err = f.svc.Authenticate(ctx, "carol", "wrong")
	requireKind(t, err, apperr.KindUnauthorized)
	_, err = f.svc.Authenticate(ctx, "nobody", "secret1")
	requireKind(t, err, apperr.KindUnauthorized)

	requireKind(t, f.svc.SetRole(ctx, f.alice, u.ID, models.RoleAdmin), apperr.KindForbidden)
	require.NoError(t, f.svc.SetRole(ctx, f.admin, u.ID, models.RoleAdmin))
	reloaded, err := f.svc.LoadIdentity(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)
	requireKind(t, f.svc.SetRole(ctx, f.admin, 9999, models.RoleUser), apperr.KindNotFound)

	requireKind(t, f.svc.SetPassword(ctx, f.bob, u.ID, "hijacked"), apperr.KindForbidden)
	require.NoError(t, f.svc.SetPassword(ctx, f.alice, f.alice.UserID, "new-secret"))
	_, err = f.svc.Authenticate(ctx, "alice", "new-secret")
	assert.NoError(t, err)
}

func TestEnsureAdminOnlyOnce(t *testing.T) {
	db := testutil.DB(t)
	svc := service.New(db, testutil.Logger(t), service.WithHashCost(bcrypt.MinCost))
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin-pw"))
	require.NoError(t, svc.EnsureAdmin(ctx, "other-admin", "admin-pw"))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.User{}, "role = ?", models.RoleAdmin))

	_, err := svc.Authenticate(ctx, "admin", "admin-pw")
	assert.NoError(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	svc := service.New(db, testutil.Logger(t), service.WithHashCost(bcrypt.MinCost))
	ctx := context.Background()

	seed, err := config.ParseSeed([]byte(`
users:
  - name: alice
    password: secret1
    departments:
      - name: Sales
        password: sales-pw
      - name: Support
        password: support-pw
  - name: root
    password: rootpw1
    role: admin
`))
	require.NoError(t, err)

	res, err := svc.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, service.SeedResult{UsersCreated: 2, DepartmentsCreated: 2}, res)

	res, err = svc.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, service.SeedResult{}, res)
	assert.Equal(t, int64(2), testutil.Count(t, db, &models.Department{}, "1 = 1"))
}

func TestOperatorProvisioning(t *testing.T) {
	db := testutil.DB(t)
	svc := service.New(db, testutil.Logger(t), service.WithHashCost(bcrypt.MinCost))
	ctx := context.Background()

	u, err := svc.ProvisionUser(ctx, service.NewUser{Name: "erin", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	require.NoError(t, svc.AssignRole(ctx, "erin", models.RoleAdmin))
	id, err := svc.LoadIdentity(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())

	requireKind(t, svc.AssignRole(ctx, "nobody", models.RoleAdmin), apperr.KindNotFound)
	requireKind(t, svc.AssignRole(ctx, "erin", "superuser"), apperr.KindValidation)
}

func TestTransitionLosesRaceToConcurrentWriter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chatIn(t, models.StatusPendingReview)

	// другой запрос меняет статус между нашим чтением и условным UPDATE
	injected := false
	err := f.db.Callback().Update().Before("gorm:update").Register("test:concurrent_writer", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "chat_statuses" {
			return
		}
		injected = true
		res := tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE chat_statuses SET status = ? WHERE chat_id = ?", models.StatusNeedsRevision, chat)
		assert.NoError(t, res.Error)
	})
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(ctx, f.admin, chat, "completed")
	require.True(t, injected)
	requireKind(t, err, apperr.KindForbidden)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "forbidden_transition", appErr.Code)
	assert.Contains(t, appErr.Message, "needs_revision")

	// транзакция откатилась целиком, вместе с чужой записью
	assert.Equal(t, models.StatusPendingReview, testutil.StatusOf(t, f.db, chat))
	assert.Zero(t, testutil.Count(t, f.db, &models.AuditLog{}, "action = ?", "status_change"))
}

func TestDeleteChatFollowsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, st := range []models.Status{models.StatusPendingReview, models.StatusCompleted, models.StatusArchived} {
		chat := f.chatIn(t, st)
		err := f.svc.DeleteChat(ctx, f.alice, chat)
		requireKind(t, err, apperr.KindForbidden)
		assert.Contains(t, err.Error(), string(st))
		assert.Equal(t, st, testutil.StatusOf(t, f.db, chat))

		require.NoError(t, f.svc.DeleteChat(ctx, f.admin, chat), "admin in %s", st)
		assert.Zero(t, testutil.Count(t, f.db, &models.Chat{}, "id = ?", chat))
	}

	for _, st := range []models.Status{models.StatusDraft, models.StatusNeedsRevision} {
		chat := f.chatIn(t, st)
		require.NoError(t, f.svc.DeleteChat(ctx, f.alice, chat), "owner in %s", st)
		assert.Zero(t, testutil.Count(t, f.db, &models.Chat{}, "id = ?", chat))
	}
	assert.Equal(t, int64(5), testutil.Count(t, f.db, &models.AuditLog{}, "action = ?", "delete"))
}

func TestDeleteDepartmentBlockedByClosedChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.chatIn(t, models.StatusDraft)
	f.chatIn(t, models.StatusCompleted)

	requireKind(t, f.svc.DeleteDepartment(ctx, f.alice, f.dept.ID), apperr.KindForbidden)
	assert.Equal(t, int64(2), testutil.Count(t, f.db, &models.Chat{}, "department_id = ?", f.dept.ID))

	require.NoError(t, f.svc.DeleteDepartment(ctx, f.admin, f.dept.ID))
	assert.Zero(t, testutil.Count(t, f.db, &models.Chat{}, "1 = 1"))
}
