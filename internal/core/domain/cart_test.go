package domain

import (
	"encoding/json"
	"testing"
)

func TestCart_AddSameProductTwiceKeepsFirstSnapshot(t *testing.T) {
	first := Product{ID: "p1", Title: "Bat", Price: 100, Stock: 5}
	second := Product{ID: "p1", Title: "Bat v2", Price: 120, Stock: 1}

	cart := Cart{}.Add(first).Add(second)

	if len(cart) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart))
	}
	line := cart[0]
	if line.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", line.Quantity)
	}
	if line.Title != "Bat" || line.Price != 100 || line.Stock != 5 {
		t.Errorf("expected first snapshot, got %+v", line)
	}
}

func TestCart_AddPreservesOrder(t *testing.T) {
	cart := Cart{}.
		Add(Product{ID: "a"}).
		Add(Product{ID: "b"}).
		Add(Product{ID: "a"}).
		Add(Product{ID: "c"})

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if cart[i].ProductID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, cart[i].ProductID)
		}
	}
}

func TestCart_DecreaseToZeroRemovesLine(t *testing.T) {
	cart := Cart{}.Add(Product{ID: "p1"}).Increase("p1")

	cart = cart.Decrease("p1")
	if l, _ := cart.Find("p1"); l.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", l.Quantity)
	}

	cart = cart.Decrease("p1")
	if _, ok := cart.Find("p1"); ok {
		t.Fatal("expected line removed at zero")
	}

	cart = cart.Decrease("p1")
	if len(cart) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(cart))
	}
}

func TestCart_UnknownIDIsNoop(t *testing.T) {
	cart := Cart{}.Add(Product{ID: "p1"})

	for _, next := range []Cart{cart.Increase("x"), cart.Decrease("x"), cart.Remove("x")} {
		if len(next) != 1 || next[0].Quantity != 1 {
			t.Errorf("expected unchanged cart, got %+v", next)
		}
	}
}

func TestCart_MethodsDoNotMutateReceiver(t *testing.T) {
	cart := Cart{}.Add(Product{ID: "p1"})
	_ = cart.Increase("p1")
	_ = cart.Add(Product{ID: "p1"})

	if cart[0].Quantity != 1 {
		t.Errorf("receiver mutated: quantity %d", cart[0].Quantity)
	}
}

func TestCart_Total(t *testing.T) {
	cart := Cart{
		{ProductID: "a", Price: 100, Quantity: 2},
		{ProductID: "b", Price: 50, Quantity: 1},
	}
	if got := FormatAmount(cart.Total()); got != "250.00" {
		t.Errorf("expected 250.00, got %s", got)
	}

	cart = Cart{{ProductID: "c", Price: 0.1, Quantity: 3}}
	if got := FormatAmount(cart.Total()); got != "0.30" {
		t.Errorf("expected 0.30, got %s", got)
	}
}

func TestCart_Scenario(t *testing.T) {
	p := Product{ID: "p1", Price: 200}
	cart := Cart{}.Add(p).Add(p).Increase("p1")

	if len(cart) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart))
	}
	if cart[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", cart[0].Quantity)
	}
	if got := FormatAmount(cart[0].LineTotal()); got != "600.00" {
		t.Errorf("expected line total 600.00, got %s", got)
	}
}

func TestCart_Search(t *testing.T) {
	cart := Cart{
		{ProductID: "a", Title: "Kashmir Willow Bat"},
		{ProductID: "b", Title: "Helmet", Category: "Protection"},
		{ProductID: "c", Title: "Ball", Description: "Leather, red"},
	}

	cases := map[string]int{"": 3, "bat": 1, "PROTECT": 1, "leather": 1, "gloves": 0}
	for term, want := range cases {
		if got := len(cart.Search(term)); got != want {
			t.Errorf("search %q: expected %d, got %d", term, want, got)
		}
	}
}

func TestCart_EmptyMarshalsAsArray(t *testing.T) {
	b, err := json.Marshal(Cart{}.Add(Product{ID: "p1"}).Remove("p1"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[]" {
		t.Errorf("expected [], got %s", b)
	}
}

func TestProduct_DecodeImageVariants(t *testing.T) {
	cases := []struct {
		body string
		want ImageRef
	}{
		{`{"_id":"1","imageUrl":"https://img/a.png"}`, "https://img/a.png"},
		{`{"_id":"1","imageUrl":{"secure_url":"https://img/b.png"}}`, "https://img/b.png"},
		{`{"_id":"1","imageUrl":"https://img/a.png","image":"https://img/c.png"}`, "https://img/c.png"},
		{`{"_id":"1","imageUrl":null}`, ""},
	}
	for _, c := range cases {
		var p Product
		if err := json.Unmarshal([]byte(c.body), &p); err != nil {
			t.Fatalf("decode %s: %v", c.body, err)
		}
		if p.Image != c.want {
			t.Errorf("decode %s: expected %q, got %q", c.body, c.want, p.Image)
		}
	}
}
