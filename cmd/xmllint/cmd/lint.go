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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	xml "github.com/Goodwine/expatgo"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Checks that a file is well-formed XML, feeding it to the decoder in chunks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("exactly one file argument is required")
		}
		log := logger()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		d := xml.NewPushDecoder()
		d.SetLogger(log)

		var startTags, closeTags, chardata, comments int
		buf := make([]byte, chunkSize)
		for {
			n, rerr := f.Read(buf)
			isFinal := errors.Is(rerr, io.EOF)
			if n > 0 {
				log.WithField("bytes", n).Debug("feeding chunk")
				if err := d.Parse(buf[:n], isFinal); err != nil {
					return err
				}
			} else if isFinal {
				if err := d.Close(); err != nil {
					return err
				}
			} else if rerr != nil {
				return rerr
			}

			for {
				tok, err := d.Token()
				if err != nil {
					if errors.Is(err, xml.ErrNeedMoreData) {
						break
					}
					if errors.Is(err, io.EOF) {
						fmt.Printf("%s: well-formed (%d start tags, %d close tags, %d char-data runs, %d comments)\n",
							args[0], startTags, closeTags, chardata, comments)
						return nil
					}
					return fmt.Errorf("%s: %w", args[0], err)
				}
				switch t := tok.(type) {
				case *xml.StartTag:
					startTags++
					log.WithField("name", t.Name.Local()).Debug("start tag")
				case *xml.CloseTag:
					closeTags++
					log.WithField("name", t.Name.Local()).Debug("close tag")
				case *xml.CharData:
					chardata++
				case *xml.Comment:
					comments++
				}
			}

			if isFinal {
				return nil
			}
		}
	},
}
