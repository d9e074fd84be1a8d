package stations

import "testing"

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{"", ViewStarts, false},
		{"starts", ViewStarts, false},
		{"END", ViewEnds, false},
		{" ends ", ViewEnds, false},
		{"middle", ViewStarts, true},
	}

	for _, tt := range tests {
		got, err := ParseView(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseView(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseView(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestViewToggle(t *testing.T) {
	if ViewStarts.Toggle() != ViewEnds {
		t.Error("starts should toggle to ends")
	}
	if ViewEnds.Toggle() != ViewStarts {
		t.Error("ends should toggle to starts")
	}
	if ViewEnds.Toggle().Toggle() != ViewEnds {
		t.Error("double toggle should be identity")
	}
}

func TestParseSeasonAndVehicle(t *testing.T) {
	if s, err := ParseSeason("Autumn"); err != nil || s != Fall {
		t.Errorf("ParseSeason(Autumn) = %v, %v", s, err)
	}
	if _, err := ParseSeason("dry"); err == nil {
		t.Error("ParseSeason(dry) should fail")
	}
	if v, err := ParseVehicleType("classic_bike"); err != nil || v != Classic {
		t.Errorf("ParseVehicleType(classic_bike) = %v, %v", v, err)
	}
	if _, err := ParseVehicleType("docked_bike"); err == nil {
		t.Error("ParseVehicleType(docked_bike) should fail")
	}
}
