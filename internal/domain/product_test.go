package domain

import (
	"testing"
)

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"twenty percent off", 100000, 20, 80000},
		{"no discount equals price", 250.50, 0, 250.50},
		{"full discount is free", 80, 100, 0},
		{"half off", 10, 50, 5},
		{"zero price stays zero", 0, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.price, Discount: tt.discount}

			got := p.FinalPrice()
			if got < tt.want-0.0001 || got > tt.want+0.0001 {
				t.Errorf("FinalPrice() = %f, want %f", got, tt.want)
			}
		})
	}
}
