package stego

import (
	"math"
	"testing"
)

func TestCompare(t *testing.T) {
	orig := NewPixelBuffer(10, 10, 3)
	for i := range orig.Pix {
		orig.Pix[i] = 100
	}

	// Identical images
	res, err := Compare(orig, orig.Clone())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.MSE != 0 {
		t.Errorf("Expected MSE 0, got %f", res.MSE)
	}
	if !math.IsInf(res.PSNR, 1) {
		t.Errorf("Expected PSNR +Inf, got %f", res.PSNR)
	}

	// One pixel differs by 10 in every lane: 3 * 100 / 300
	stego := orig.Clone()
	stego.Pix[0], stego.Pix[1], stego.Pix[2] = 110, 110, 110
	res, err = Compare(orig, stego)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.MSE != 1 {
		t.Errorf("Expected MSE 1, got %f", res.MSE)
	}
	if res.ChangedBytes != 3 {
		t.Errorf("Expected 3 changed bytes, got %d", res.ChangedBytes)
	}
	want := 10 * math.Log10(255*255)
	if math.Abs(res.PSNR-want) > 1e-9 {
		t.Errorf("Expected PSNR %f, got %f", want, res.PSNR)
	}
}

func TestCompareIgnoresAlphaInMSE(t *testing.T) {
	orig := NewPixelBuffer(2, 2, 4)
	stego := orig.Clone()
	stego.Pix[3] = 255

	res, err := Compare(orig, stego)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.AlphaPreserved {
		t.Error("Expected alpha change to be detected")
	}
	if res.MSE != 0 {
		t.Errorf("Expected alpha to be excluded from MSE, got %f", res.MSE)
	}
}

func TestCompareDimensionMismatch(t *testing.T) {
	if _, err := Compare(NewPixelBuffer(10, 10, 3), NewPixelBuffer(10, 11, 3)); err == nil {
		t.Error("Expected error for mismatched dimensions")
	}
	if _, err := Compare(NewPixelBuffer(10, 10, 3), NewPixelBuffer(10, 10, 4)); err == nil {
		t.Error("Expected error for mismatched channels")
	}
}
