package smithytime

import (
	"testing"
	"time"
)

func TestDateTime(t *testing.T) {
	refTime := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	dateTime := FormatDateTime(refTime)
	if e, a := "2023-11-14T22:13:20Z", dateTime; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	parseTime, err := ParseDateTime(dateTime)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if e, a := refTime, parseTime; !e.Equal(a) {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestHTTPDate(t *testing.T) {
	refTime := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	httpDate := FormatHTTPDate(refTime)
	if e, a := "Tue, 14 Nov 2023 22:13:20 GMT", httpDate; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	parseTime, err := ParseHTTPDate(httpDate)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if e, a := refTime, parseTime; !e.Equal(a) {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestEpochSeconds(t *testing.T) {
	refTime := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	str := FormatEpochSeconds(refTime)
	if e, a := "1700000000.000", str; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	parsed := ParseEpochSeconds(EpochSecondsValue(refTime))
	if e, a := refTime, parsed; !e.Equal(a) {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestParseEpochSecondsStrict(t *testing.T) {
	_, err := ParseEpochSecondsStrict(0, true, "/ts")
	if err == nil {
		t.Fatal("expected TimestampTypeError for string-shaped epoch-seconds")
	}
	if _, ok := err.(*TimestampTypeError); !ok {
		t.Fatalf("expected *TimestampTypeError, got %T", err)
	}

	if _, err := ParseEpochSecondsStrict(1700000000, false, "/ts"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
