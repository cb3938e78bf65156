package feature

import (
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		wantErr   bool
		wantLen   int
		wantWidth int
	}{
		{
			name:      "well formed table",
			csv:       "id,f0,f1\nc1,1.0,0.5\nc2,0,1\n",
			wantLen:   2,
			wantWidth: 2,
		},
		{
			name:      "nan and garbage cells become zero",
			csv:       "id,f0,f1\nc1,NaN,abc\n",
			wantLen:   1,
			wantWidth: 2,
		},
		{
			name:      "short rows skipped",
			csv:       "id,f0,f1\nc1,1.0\nc2,1.0,2.0\n",
			wantLen:   1,
			wantWidth: 2,
		},
		{
			name:      "duplicate id keeps first row",
			csv:       "id,f0\nc1,1.0\nc1,9.0\n",
			wantLen:   1,
			wantWidth: 1,
		},
		{
			name:    "empty table is an error",
			csv:     "id,f0\n",
			wantErr: true,
		},
		{
			name:    "missing feature columns is an error",
			csv:     "id\nc1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := ReadCSV(strings.NewReader(tt.csv))
			if tt.wantErr {
				if err == nil {
					t.Fatal("ReadCSV() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if tab.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", tab.Len(), tt.wantLen)
			}
			if tab.Width() != tt.wantWidth {
				t.Errorf("Width() = %d, want %d", tab.Width(), tt.wantWidth)
			}
		})
	}
}

func TestReadCSV_NaNBecomesZero(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader("id,f0,f1\nc1,NaN,2.5\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	row, ok := tab.Row("c1")
	if !ok {
		t.Fatal("Row(c1) missing")
	}
	if row[0] != 0 {
		t.Errorf("NaN cell = %v, want 0", row[0])
	}
	if row[1] != 2.5 {
		t.Errorf("numeric cell = %v, want 2.5", row[1])
	}
}

func TestReadCSV_RowOrderStable(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader("id,f0\nc3,1\nc1,2\nc2,3\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	want := []string{"c3", "c1", "c2"}
	for i, id := range tab.IDs() {
		if id != want[i] {
			t.Fatalf("IDs()[%d] = %q, want %q", i, id, want[i])
		}
	}
}

func TestOneHotEncoder(t *testing.T) {
	enc := NewOneHotEncoder(map[string][]string{
		"theme": {"math", "cs", "bio"},
	})

	got := enc.EncodeWithKey("theme", "cs")
	if got["theme_0"] != 0 || got["theme_1"] != 1 || got["theme_2"] != 0 {
		t.Errorf("EncodeWithKey(theme, cs) = %v, want one-hot on theme_1", got)
	}

	// 未注册的特征名编码为空
	if got := enc.EncodeWithKey("ghost", "x"); len(got) != 0 {
		t.Errorf("unknown key encoded to %v, want empty", got)
	}

	withPrefix := enc.WithPrefix("item").EncodeWithKey("theme", "math")
	if withPrefix["item_theme_0"] != 1 {
		t.Errorf("prefixed encoding = %v, want item_theme_0 = 1", withPrefix)
	}
}
