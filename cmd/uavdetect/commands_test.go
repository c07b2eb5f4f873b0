package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommands(t *testing.T) {
	Convey("Given the root command", t, func() {
		root := buildRoot()

		Convey("Then it carries the expected subcommands", func() {
			names := make([]string, 0, len(root.Commands()))
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			So(names, ShouldContain, "replay")
			So(names, ShouldContain, "gen")
			So(names, ShouldContain, "version")
		})

		Convey("When running the version command", func() {
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs([]string{"version"})

			So(root.Execute(), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, "uavdetect "+version)
		})

		Convey("When generating a log via the gen command", func() {
			path := filepath.Join(t.TempDir(), "flight.json")
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs([]string{"gen", "--out", path, "--duration", "30"})

			So(root.Execute(), ShouldBeNil)

			info, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(info.Size(), ShouldBeGreaterThan, 0)
		})

		Convey("When replaying without a log file", func() {
			root.SetArgs([]string{"replay"})

			So(root.Execute(), ShouldNotBeNil)
		})
	})
}
