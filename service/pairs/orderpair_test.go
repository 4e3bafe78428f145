package pairs

import "testing"

func TestOrderer(t *testing.T) {
	orderer := NewOrderer([]string{"WAVES", "BTC", "USD"})

	tests := []struct {
		name       string
		a, b       string
		wantAmount string
		wantPrice  string
	}{
		{"both listed, priority wins price side", "BTC", "WAVES", "BTC", "WAVES"},
		{"both listed, reversed input", "WAVES", "BTC", "BTC", "WAVES"},
		{"one listed becomes price", "XYZ", "USD", "XYZ", "USD"},
		{"one listed becomes price, reversed input", "USD", "XYZ", "XYZ", "USD"},
		{"neither listed keeps input order", "AAA", "ZZZ", "AAA", "ZZZ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, price := orderer.Order(tc.a, tc.b)
			if amount != tc.wantAmount || price != tc.wantPrice {
				t.Errorf("Order(%s, %s) = (%s, %s), want (%s, %s)",
					tc.a, tc.b, amount, price, tc.wantAmount, tc.wantPrice)
			}
		})
	}
}

func TestOrdererEmptyList(t *testing.T) {
	orderer := NewOrderer(nil)
	amount, price := orderer.Order("BBB", "AAA")
	if amount != "BBB" || price != "AAA" {
		t.Errorf("empty priority list must keep input order, got (%s, %s)", amount, price)
	}
}

func TestOrdererIdempotent(t *testing.T) {
	orderer := NewOrderer([]string{"WAVES", "BTC"})
	amount, price := orderer.Order("XTN", "BTC")
	again1, again2 := orderer.Order(amount, price)
	if again1 != amount || again2 != price {
		t.Errorf("reordering a canonical pair must be a no-op, got (%s, %s)", again1, again2)
	}
}
