// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "xmllint",
		Short:        "xmllint",
		SilenceUsage: true,
		Long:         `CLI tool that drives the expatgo token decoder against a file, one chunk at a time.`,
	}

	chunkSize int
	verbose   bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().IntVarP(&chunkSize, "chunk-size", "c", 4096, "number of bytes fed to the decoder per Parse call")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every token/event at debug level")
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(dtdCmd)
}

func logger() *logrus.Entry {
	log := logrus.StandardLogger()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(log)
}
