// seehuhn.de/go/afmc - compile AFM font metrics into Go lookup tables
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"testing"
)

func TestAddHeader(t *testing.T) {
	body := "package foo\n"
	got, err := addHeader([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != header+body {
		t.Errorf("wrong result %q", got)
	}

	again, err := addHeader(got)
	if err != nil || again != nil {
		t.Errorf("header added twice: %q, %v", again, err)
	}

	tagged := "//go:build ignore\n\npackage main\n"
	got, err = addHeader([]byte(tagged))
	if err != nil || string(got) != header+tagged {
		t.Errorf("build constraint: %q, %v", got, err)
	}

	_, err = addHeader([]byte("// Copyright someone else\n\npackage foo\n"))
	if !errors.Is(err, errForeignHeader) {
		t.Errorf("foreign header: %v", err)
	}
}
