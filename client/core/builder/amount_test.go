package builder

import "testing"

func TestFromMAS(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"四位小数", "1.5234", "1523400000", false},
		{"整数", "2", "2000000000", false},
		{"超出精度四舍五入", "1.1234567899", "1123456790", false},
		{"超出精度舍去", "1.1234567894", "1123456789", false},
		{"最小单位", "0.000000001", "1", false},
		{"省略整数部分", ".5", "500000000", false},
		{"末尾小数点", "3.", "3000000000", false},
		{"空", "", "", true},
		{"负数", "-1", "", true},
		{"字母", "1.2a", "", true},
		{"两个小数点", "1.2.3", "", true},
		{"科学计数法", "1e9", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMAS(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromMAS(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got.StringNano() != tt.want {
				t.Errorf("FromMAS(%q) = %s, want %s", tt.in, got.StringNano(), tt.want)
			}
		})
	}
}

func TestToMAS(t *testing.T) {
	tests := []struct {
		nano uint64
		want string
	}{
		{1523400000, "1.5234"},
		{2000000000, "2"},
		{1123456790, "1.12345679"},
		{1, "0.000000001"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := ToMAS(tt.nano); got != tt.want {
			t.Errorf("ToMAS(%d) = %s, want %s", tt.nano, got, tt.want)
		}
	}
}

func TestMASRoundTrip(t *testing.T) {
	for _, s := range []string{"1.5234", "2", "0.000000001", "123456.789"} {
		a, err := FromMAS(s)
		if err != nil {
			t.Fatalf("FromMAS(%q): %v", s, err)
		}
		if a.String() != s {
			t.Errorf("round trip %q -> %q", s, a.String())
		}
	}
	if MAS(2).Cmp(NewAmountFromNano(2_000_000_000)) != 0 {
		t.Error("MAS(2) 应等于 2e9 nanoMAS")
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmountFromNano(300)
	b := NewAmountFromNano(100)

	if got := a.Add(b).StringNano(); got != "400" {
		t.Errorf("Add = %s", got)
	}
	diff, err := a.Sub(b)
	if err != nil || diff.StringNano() != "200" {
		t.Errorf("Sub = %v, %v", diff, err)
	}
	if _, err := b.Sub(a); err != ErrInsufficientAmount {
		t.Errorf("Sub underflow err = %v", err)
	}
	if !Zero().IsZero() || a.IsZero() {
		t.Error("IsZero 结果错误")
	}
}

func TestAmountNanoOverflow(t *testing.T) {
	huge := MAS(1 << 40)
	if _, err := huge.Nano(); err != ErrAmountOverflow {
		t.Errorf("Nano() err = %v, want ErrAmountOverflow", err)
	}
	if got := huge.Add(NewAmountFromNano(1)).Cmp(huge); got != 1 {
		t.Errorf("Cmp = %d, want 1", got)
	}
}

func TestSpend(t *testing.T) {
	cases := []struct {
		name string
		op   Operation
		want string
	}{
		{"转账", Transfer{Fee: 10, Amount: 300}, "310"},
		{"调用合约", CallSC{Fee: 2, Coins: 5}, "7"},
		{"执行字节码", ExecuteSC{Fee: 1, MaxCoins: 9}, "10"},
		{"购买 roll", RollBuy{Fee: 4, Count: 3}, "4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Spend(tc.op).StringNano(); got != tc.want {
				t.Errorf("Spend = %s, want %s", got, tc.want)
			}
		})
	}

	if !TotalSpend().IsZero() {
		t.Error("空批次总额应为零")
	}
	if got := TotalSpend(Transfer{Fee: 10, Amount: 300}, RollSell{Fee: 1, Count: 1}).StringNano(); got != "311" {
		t.Errorf("TotalSpend = %s", got)
	}
}
