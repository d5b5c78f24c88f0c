package config

import (
	"testing"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.PrefsBackend), ShouldEqual, "json")
			So(viper.GetBool(key.PlayerResume), ShouldBeTrue)
		})

		Convey("Should register every defined key", func() {
			So(len(Default), ShouldEqual, key.DefinedFieldsCount)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("library.show_paths")
			So(result, ShouldEqual, "library_show_paths")
		})

		Convey("Env names carry the application prefix once", func() {
			f := Default[key.PlayerSeekStep]
			So(f.Env(), ShouldEqual, "CINEMA_PLAYER_SEEK_STEP")
		})
	})
}
