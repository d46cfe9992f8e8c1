/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package log is the singleton, colorized logger used throughout solmutate.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

var (
	fgRed     = color.New(color.FgRed).SprintFunc()
	fgYellow  = color.New(color.FgYellow).SprintFunc()
	fgGreen   = color.New(color.FgGreen).SprintFunc()
	fgHiBlack = color.New(color.FgHiBlack).SprintFunc()
)

type log struct {
	writer    io.Writer
	errWriter io.Writer
}

var mutex = &sync.Mutex{}
var instance *log

// Init initializes a new logger with the given io.Writer for standard
// output and, optionally, a distinct io.Writer for errors. If w is nil
// the logger behaves as NoOp. The initialized instance is a singleton.
//
// If one of the logging methods is called before Init, it is silently
// dropped.
func Init(w io.Writer, errW io.Writer) {
	if w == nil {
		return
	}
	if errW == nil {
		errW = w
	}
	if instance == nil {
		mutex.Lock()
		defer mutex.Unlock()
		if instance == nil {
			instance = &log{writer: w, errWriter: errW}
		}
	}
}

// Reset removes the current log instance.
func Reset() {
	instance = nil
}

// Infof logs an information using format.
func Infof(f string, args ...any) {
	if instance == nil {
		return
	}
	instance.writef(f, args...)
}

// Infoln logs an information line.
func Infoln(a any) {
	if instance == nil {
		return
	}
	instance.writeln(a)
}

// Warnf logs a non-fatal warning using format, such as NoLegalCommentSite.
func Warnf(f string, args ...any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf(f, args...)
	instance.writef("%s: %s", fgYellow("WARN"), msg)
}

// Errorf logs an error using format.
func Errorf(f string, args ...any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf(f, args...)
	instance.writeErrf("%s: %s", fgRed("ERROR"), msg)
}

// Errorln logs an error line.
func Errorln(a any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf("%s: %s", fgRed("ERROR"), a)
	instance.writeErrln(msg)
}

func (l *log) writef(f string, args ...any) {
	_, _ = fmt.Fprintf(l.writer, f, args...)
}

func (l *log) writeln(a any) {
	_, _ = fmt.Fprintln(l.writer, a)
}

func (l *log) writeErrf(f string, args ...any) {
	_, _ = fmt.Fprintf(l.errWriter, f, args...)
}

func (l *log) writeErrln(a any) {
	_, _ = fmt.Fprintln(l.errWriter, a)
}

// colorByOutcome exposes the palette used by report to keep every
// status rendering consistent across the codebase.
var colorByOutcome = struct {
	Green, Red, Yellow, Gray func(...any) string
}{fgGreen, fgRed, fgYellow, fgHiBlack}

// Palette returns the shared color functions so other packages (report)
// render statuses consistently without redefining the palette.
func Palette() (green, red, yellow, gray func(...any) string) {
	return colorByOutcome.Green, colorByOutcome.Red, colorByOutcome.Yellow, colorByOutcome.Gray
}
