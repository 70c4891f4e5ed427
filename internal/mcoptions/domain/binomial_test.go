package domain

import (
	"math"
	"testing"
)

func TestCRRConvergesToBlackScholes(t *testing.T) {
	price, err := PriceEuropeanBinomial(100, 100, 0.05, 0.20, 1.0, Call, 1000)
	if err != nil {
		t.Fatal(err)
	}
	bs := BlackScholesPrice(Call, 100, 100, 0.05, 0.20, 1.0)
	relErr := math.Abs(price-bs) / bs
	if relErr > 0.005 {
		t.Errorf("CRR M=1000 price %v vs BS %v, relative error %v exceeds 0.5%%", price, bs, relErr)
	}
}

func TestCRRRejectsInconsistentProbability(t *testing.T) {
	// A wildly large rate/vol combination can push p outside [0,1]; force it
	// by choosing a pathological per-step rate relative to volatility.
	_, err := PriceCRR(CRRParams{S0: 100, K: 100, R: 50, Sigma: 0.001, T: 1, M: 2, Kind: Call})
	if err == nil {
		t.Fatal("expected InconsistentModel error for out-of-range p")
	}
}

func TestCRRAmericanPutGeqEuropeanPut(t *testing.T) {
	american, err := PriceAmericanBinomial(100, 100, 0.05, 0.20, 1.0, Put, 200)
	if err != nil {
		t.Fatal(err)
	}
	european, err := PriceEuropeanBinomial(100, 100, 0.05, 0.20, 1.0, Put, 200)
	if err != nil {
		t.Fatal(err)
	}
	if american < european-1e-9 {
		t.Errorf("American put %v should be >= European put %v", american, european)
	}
}

func TestCRRAmericanCallEqualsEuropeanNoDividends(t *testing.T) {
	american, err := PriceAmericanBinomial(100, 100, 0.05, 0.20, 1.0, Call, 200)
	if err != nil {
		t.Fatal(err)
	}
	european, err := PriceEuropeanBinomial(100, 100, 0.05, 0.20, 1.0, Call, 200)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(american-european) > 1e-3 {
		t.Errorf("American call should equal European call without dividends: %v vs %v", american, european)
	}
}

func TestCRRReferenceScenarios(t *testing.T) {
	americanPut, err := PriceAmericanBinomial(100, 100, 0.05, 0.20, 1.0, Put, 200)
	if err != nil {
		t.Fatal(err)
	}
	europeanPut, err := PriceEuropeanBinomial(100, 100, 0.05, 0.20, 1.0, Put, 200)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(americanPut-6.08) > 0.1 {
		t.Errorf("American put = %v, want ~6.08", americanPut)
	}
	if math.Abs(europeanPut-5.57) > 0.1 {
		t.Errorf("European put (binomial) = %v, want ~5.57", europeanPut)
	}
	premium := americanPut - europeanPut
	if math.Abs(premium-0.50) > 0.15 {
		t.Errorf("early-exercise premium = %v, want ~0.50", premium)
	}
}

func TestCRRDeepITMAmericanPut(t *testing.T) {
	price, err := PriceAmericanBinomial(80, 100, 0.05, 0.20, 1.0, Put, 200)
	if err != nil {
		t.Fatal(err)
	}
	if price < 20.0-1e-9 {
		t.Errorf("deep-ITM American put %v should be >= intrinsic 20.00", price)
	}
}

func TestCRRNodeCountAndPrices(t *testing.T) {
	M := 5
	d := DeriveCRR(0.05, 0.2, 1.0, M)
	if d.P < 0 || d.P > 1 {
		t.Fatalf("expected well-posed tree, got p=%v", d.P)
	}
	for j := 0; j <= M; j++ {
		s := 100 * math.Pow(d.U, float64(j)) * math.Pow(d.D, float64(M-j))
		if s <= 0 {
			t.Errorf("node (%d,%d) price must be positive, got %v", M, j, s)
		}
	}
}
