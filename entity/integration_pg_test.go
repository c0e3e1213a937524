//go:build integration

package entity_test

import (
	"context"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/entity"
	"github.com/rise-and-shine/eventhub/pg"
	"github.com/rise-and-shine/eventhub/sorter"
)

//nolint:gochecknoglobals // shared by every test of the package
var db *bun.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("eventhub"),
		postgres.WithUsername("eventhub"),
		postgres.WithPassword("eventhub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("start postgres container: %s", err)
	}

	db, err = connect(ctx, container)
	if err != nil {
		log.Fatalf("connect to postgres container: %s", err)
	}
	if err = entity.CreateSchema(ctx, db); err != nil {
		log.Fatalf("create schema: %s", err)
	}

	code := m.Run()

	_ = db.Close()
	if err = container.Terminate(ctx); err != nil {
		log.Printf("terminate postgres container: %s", err)
	}
	os.Exit(code)
}

func connect(ctx context.Context, container *postgres.PostgresContainer) (*bun.DB, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		return nil, err
	}

	return pg.NewBunDB(ctx, pg.Config{
		Host:           host,
		Port:           port,
		User:           "eventhub",
		Password:       "eventhub",
		Database:       "eventhub",
		SSLMode:        "disable",
		SearchPath:     "public",
		ConnectTimeout: 5 * time.Second,
		Pool: pg.PoolConfig{
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: time.Minute,
		},
	})
}

func newCompany(t *testing.T) uuid.UUID {
	t.Helper()
	c := &entity.Company{Name: "acme-" + uuid.NewString()[:8]}
	_, err := db.NewInsert().Model(c).Exec(t.Context())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, c.ID)
	return c.ID
}

func TestEventCRUD(t *testing.T) {
	ctx := t.Context()
	repos := entity.NewPgRepos(db)
	companyID := newCompany(t)

	created, err := repos.Events.Create(ctx, &entity.Event{CompanyID: companyID, Title: "Launch"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	created.CoverImageURL = "public/compressed/a.png"
	_, err = repos.Events.Update(ctx, created)
	require.NoError(t, err)

	got, err := repos.Events.Get(ctx, entity.ByID(companyID, created.ID))
	require.NoError(t, err)
	assert.Equal(t, "public/compressed/a.png", got.CoverImageURL)

	_, err = repos.Events.Get(ctx, entity.ByID(uuid.New(), created.ID))
	assert.True(t, errx.IsCodeIn(err, entity.CodeEventNotFound), "other tenants must not see the event")

	require.NoError(t, repos.Events.Delete(ctx, got))
	exists, err := repos.Events.Exists(ctx, entity.ByID(companyID, created.ID))
	require.NoError(t, err)
	assert.False(t, exists)

	err = repos.Events.Delete(ctx, got)
	assert.True(t, errx.IsCodeIn(err, entity.CodeEventNotFound))
}

func TestForeignKeyViolations(t *testing.T) {
	ctx := t.Context()
	repos := entity.NewPgRepos(db)

	_, err := repos.Users.Create(ctx, &entity.User{CompanyID: uuid.New(), FirstName: "A", LastName: "B"})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, entity.CodeCompanyNotFound), "got %v", err)
	assert.Equal(t, errx.T_NotFound, errx.GetType(err))

	companyID := newCompany(t)
	_, err = repos.Activities.Create(ctx, &entity.Activity{CompanyID: companyID, EventID: uuid.New(), Title: "Talk"})
	assert.True(t, errx.IsCodeIn(err, entity.CodeEventNotFound), "got %v", err)
}

func TestListActivitiesPage(t *testing.T) {
	ctx := t.Context()
	repos := entity.NewPgRepos(db)
	companyID := newCompany(t)

	event, err := repos.Events.Create(ctx, &entity.Event{CompanyID: companyID, Title: "Conf"})
	require.NoError(t, err)
	for _, title := range []string{"b", "d", "a", "c", "e"} {
		_, err = repos.Activities.Create(ctx, &entity.Activity{CompanyID: companyID, EventID: event.ID, Title: title})
		require.NoError(t, err)
	}

	page, total, err := repos.Activities.ListWithCount(ctx, entity.Filter{
		CompanyID: &companyID,
		EventID:   &event.ID,
		Limit:     2,
		Offset:    2,
		Sort:      sorter.Make(sorter.Opt{F: "title", D: sorter.Asc}),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Title)
	assert.Equal(t, "d", page[1].Title)
}
