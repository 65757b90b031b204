package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStringListDecodesLegacyString(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"name": "Ring", "tags": "gold, vintage ,,rose"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var p Product
	if err := bson.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(p.Tags) != 3 || p.Tags[0] != "gold" || p.Tags[1] != "vintage" || p.Tags[2] != "rose" {
		t.Fatalf("unexpected tags: %#v", p.Tags)
	}
}

func TestStringListDecodesArray(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"tags": []string{"silver"}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var p Product
	if err := bson.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "silver" {
		t.Fatalf("unexpected tags: %#v", p.Tags)
	}
}

func TestNewLineItemUsesFirstImage(t *testing.T) {
	p := Product{
		ID:     primitive.NewObjectID(),
		Name:   "Sapphire Pendant",
		Price:  250,
		Images: []ProductImage{{URL: "a.jpg"}, {URL: "b.jpg"}},
	}
	item := NewLineItem(p, 2)
	if item.Image != "a.jpg" || item.Price != 250 || item.Quantity != 2 || item.ProductID != p.ID {
		t.Fatalf("unexpected line item: %+v", item)
	}

	if got := NewLineItem(Product{Name: "bare"}, 1).Image; got != "" {
		t.Fatalf("expected empty image, got %q", got)
	}
}

func TestSnapshotItemsDoesNotShareBackingArray(t *testing.T) {
	cart := Cart{Items: []LineItem{{Name: "a", Price: 10, Quantity: 1}}}
	snap := cart.SnapshotItems()
	cart.Items[0].Price = 99
	if snap[0].Price != 10 {
		t.Fatalf("snapshot changed with cart: %+v", snap[0])
	}
}

func TestStringListJSONAcceptsString(t *testing.T) {
	var tags StringList
	if err := json.Unmarshal([]byte(`"gold, rose"`), &tags); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(tags) != 2 || tags[1] != "rose" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
	if err := json.Unmarshal([]byte(`["gold"]`), &tags); err != nil || len(tags) != 1 {
		t.Fatalf("array decode failed: %v %#v", err, tags)
	}
}
