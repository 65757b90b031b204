package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaffira/internal/apperr"
)

func TestSupplierCRUD(t *testing.T) {
	svc := NewSupplierService(newFakeSupplierStore(), testLogger)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	created, err := svc.Create(ctx, owner, SupplierInput{Name: "Atelier Or", Phone: "555", Email: "Hello@Atelier.example"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Email != "hello@atelier.example" || created.User != owner {
		t.Fatalf("unexpected supplier: %#v", created)
	}

	location := "Antwerp"
	blank := " "
	if _, err := svc.Update(ctx, created.ID.Hex(), SupplierPatch{Name: &blank}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for blank name, got %v", err)
	}
	updated, err := svc.Update(ctx, created.ID.Hex(), SupplierPatch{Location: &location})
	if err != nil || updated.Location != location || updated.Name != "Atelier Or" {
		t.Fatalf("update failed: %v %#v", err, updated)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
	if err := svc.Delete(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID.Hex()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
