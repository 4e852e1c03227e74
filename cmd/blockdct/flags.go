// Copyright 2025 go-blockdct Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-blockdct/dct"
	"github.com/ajroetker/go-blockdct/dct/contrib/image"
)

// modeValue adapts image.ChannelMode to a pflag.Value.
type modeValue struct {
	mode *image.ChannelMode
}

var _ pflag.Value = modeValue{}

func (v modeValue) String() string {
	if v.mode == nil {
		return image.Grayscale.String()
	}
	return v.mode.String()
}

func (v modeValue) Set(s string) error {
	m, err := image.ParseChannelMode(s)
	if err != nil {
		return err
	}
	*v.mode = m
	return nil
}

func (v modeValue) Type() string { return "mode" }

// levelValue records an explicit kernel level; unset keeps the detected one.
type levelValue struct {
	level dct.Level
	set   bool
}

var _ pflag.Value = (*levelValue)(nil)

func (v *levelValue) String() string {
	if !v.set {
		return ""
	}
	return v.level.String()
}

func (v *levelValue) Set(s string) error {
	l, err := dct.ParseLevel(s)
	if err != nil {
		return err
	}
	v.level, v.set = l, true
	return nil
}

func (v *levelValue) Type() string { return "level" }
