package cbor

import "math/big"

// bigFloatToDecimal converts a big.Float into the mantissa and base-10
// exponent carried by the tag-4 bigdecimal encoding (written on the wire as
// [exponent, mantissa]), where value = mantissa * 10^exponent.
//
// big.Float carries a binary exponent, not a decimal one, so this renders
// through the shortest round-tripping decimal text form (the same
// technique big.Float.Text('g', -1) uses internally) and scans the result
// into digits + a base-10 exponent, rather than attempting a binary-to-
// decimal rational conversion by hand.
func bigFloatToDecimal(v *big.Float) (mantissa *big.Int, exponent int) {
	if v.Sign() == 0 {
		return big.NewInt(0), 0
	}

	text := v.Text('e', -1)
	// text is of the form "-d.dddde±dd" or "d.dddde±dd".
	neg := false
	if text[0] == '-' {
		neg = true
		text = text[1:]
	}

	eIdx := -1
	for i := 0; i < len(text); i++ {
		if text[i] == 'e' {
			eIdx = i
			break
		}
	}
	mantissaText := text[:eIdx]
	expText := text[eIdx+1:]

	var digits []byte
	fracLen := 0
	seenDot := false
	for i := 0; i < len(mantissaText); i++ {
		c := mantissaText[i]
		if c == '.' {
			seenDot = true
			continue
		}
		digits = append(digits, c)
		if seenDot {
			fracLen++
		}
	}

	m := new(big.Int)
	m.SetString(string(digits), 10)
	if neg {
		m.Neg(m)
	}

	exp := new(big.Int)
	exp.SetString(expText, 10)
	exponent = int(exp.Int64()) - fracLen

	return m, exponent
}
