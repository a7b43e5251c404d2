package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/models"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestFindOrCreate(t *testing.T) {
	users := NewUserRepository(openDB(t))
	ctx := context.Background()

	u, created, err := users.FindOrCreate(ctx, models.User{CognitoID: "s1", Username: "a", Email: "a@example.com"})
	if err != nil || !created || u.CognitoID != "s1" {
		t.Fatalf("first FindOrCreate = %+v, %v, %v", u, created, err)
	}
	u, created, err = users.FindOrCreate(ctx, models.User{CognitoID: "s1", Username: "changed", Email: "b@example.com"})
	if err != nil || created {
		t.Fatalf("second FindOrCreate created=%v err=%v", created, err)
	}
	if u.Username != "a" {
		t.Errorf("existing user must be returned unchanged, got %+v", u)
	}

	if _, err := users.FindByCognitoID(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestTaskRepositoryScopedByUser(t *testing.T) {
	db := openDB(t)
	tasks := NewTaskRepository(db)
	ctx := context.Background()
	for _, id := range []string{"u1", "u2"} {
		if err := db.Create(&models.User{CognitoID: id, Username: id, Email: id + "@example.com"}).Error; err != nil {
			t.Fatal(err)
		}
	}

	now := time.Now().UTC()
	mine := models.Task{Title: "b", Status: models.StatusTodo, CreatedAt: now, UserID: "u1"}
	first := models.Task{Title: "a", Status: models.StatusInProgress, CreatedAt: now, UserID: "u1"}
	theirs := models.Task{Title: "c", Status: models.StatusDone, CreatedAt: now, UserID: "u2"}
	for _, task := range []*models.Task{&mine, &first, &theirs} {
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := tasks.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != mine.ID || list[1].ID != first.ID {
		t.Fatalf("ListByUser = %+v", list)
	}
	if list[1].Status != models.StatusInProgress {
		t.Errorf("status round trip = %v", list[1].Status)
	}

	if _, err := tasks.FindByID(ctx, "u1", theirs.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID across users: err = %v", err)
	}
	if _, err := tasks.Delete(ctx, "u1", theirs.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Delete across users: err = %v", err)
	}
	if _, err := tasks.FindByID(ctx, "u2", theirs.ID); err != nil {
		t.Errorf("task of u2 must survive: %v", err)
	}

	deleted, err := tasks.Delete(ctx, "u1", mine.ID)
	if err != nil || deleted.Title != "b" {
		t.Fatalf("Delete = %+v, %v", deleted, err)
	}
}
