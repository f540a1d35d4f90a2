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

var dtdCmd = &cobra.Command{
	Use:   "dtd <file>",
	Short: "Dumps the declarations found in a DOCTYPE's internal subset",
	Long:  "Feeds a file's prolog/DTD grammar through PrologDecoder and prints every DeclEvent, one chunk at a time.",
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

		d := xml.NewPushPrologDecoder()
		d.SetLogger(log)
		d.ReadComment = verbose
		d.ReadProcInst = verbose

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
				ev, err := d.Token()
				if err != nil {
					if errors.Is(err, xml.ErrNeedMoreData) {
						break
					}
					if errors.Is(err, io.EOF) {
						return nil
					}
					return fmt.Errorf("%s: %w", args[0], err)
				}
				printDeclEvent(ev)
			}

			if isFinal {
				return nil
			}
		}
	},
}

func printDeclEvent(ev xml.DeclEvent) {
	switch e := ev.(type) {
	case *xml.DoctypeDecl:
		fmt.Printf("DOCTYPE %s PUBLIC=%q SYSTEM=%q internalSubset=%v\n", e.Name.Local(), e.PublicID, e.SystemID, e.HasInternalSubset)
	case *xml.DoctypeEnd:
		fmt.Println("DOCTYPE end")
	case *xml.GeneralEntityDecl:
		fmt.Printf("ENTITY %s value=%q public=%q system=%q ndata=%q\n", e.Name.Local(), e.Value, e.PublicID, e.SystemID, e.NDATA)
	case *xml.ParamEntityDecl:
		fmt.Printf("ENTITY %% %s value=%q public=%q system=%q\n", e.Name.Local(), e.Value, e.PublicID, e.SystemID)
	case *xml.NotationDecl:
		fmt.Printf("NOTATION %s public=%q system=%q\n", e.Name.Local(), e.PublicID, e.SystemID)
	case *xml.ElementDecl:
		fmt.Printf("ELEMENT %s %s\n", e.Name.Local(), e.Content)
	case *xml.AttlistDecl:
		fmt.Printf("ATTLIST %s\n", e.Element.Local())
		for _, a := range e.Attrs {
			fmt.Printf("  %s %s %q\n", a.Name.Local(), a.Type, a.Default)
		}
	case *xml.XMLDecl:
		fmt.Printf("XMLDecl %s\n", e.Data)
	case *xml.DeclComment:
		fmt.Printf("<!-- %s -->\n", e.Data)
	case *xml.DeclProcInst:
		fmt.Printf("PI %s\n", e.Data)
	case *xml.ParamEntityRef:
		fmt.Printf("%%%s;\n", e.Name)
	}
}
