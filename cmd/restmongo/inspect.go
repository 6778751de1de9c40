package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/metamanager"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/sample"
)

type fieldView struct {
	Kind     string `json:"kind"`
	Column   string `json:"column,omitempty"`
	Null     bool   `json:"null,omitempty"`
	Blank    bool   `json:"blank,omitempty"`
	Unique   bool   `json:"unique,omitempty"`
	ReadOnly bool   `json:"read_only,omitempty"`
}

type relationView struct {
	Model   string `json:"model"`
	ToMany  bool   `json:"to_many"`
	ToField string `json:"to_field,omitempty"`
	Through bool   `json:"has_through_model,omitempty"`
	Reverse bool   `json:"reverse,omitempty"`
}

type embeddedView struct {
	Model   string `json:"model"`
	IsArray bool   `json:"is_array"`
}

type modelView struct {
	Label      string                  `json:"label"`
	Collection string                  `json:"collection"`
	PK         string                  `json:"pk,omitempty"`
	Fields     map[string]fieldView    `json:"fields"`
	Forward    map[string]relationView `json:"forward_relations"`
	Reverse    map[string]relationView `json:"reverse_relations"`
	Embedded   map[string]embeddedView `json:"embedded"`
}

func describe(meta *domain.ModelMeta, info *domain.FieldInfo) modelView {
	view := modelView{
		Label:      meta.Label,
		Collection: meta.Collection(),
		Fields:     make(map[string]fieldView, len(info.FieldsAndPK)),
		Forward:    make(map[string]relationView, len(info.ForwardRelations)),
		Reverse:    make(map[string]relationView, len(info.ReverseRelations)),
		Embedded:   make(map[string]embeddedView, len(info.Embedded)),
	}
	if info.PK != nil {
		view.PK = info.PK.Name
	}
	for name, f := range info.FieldsAndPK {
		if name == domain.PKAlias {
			continue
		}
		view.Fields[name] = fieldView{
			Kind:     f.Kind.String(),
			Column:   f.DBColumn,
			Null:     f.Null,
			Blank:    f.Blank,
			Unique:   f.Unique,
			ReadOnly: !f.Editable,
		}
	}
	relation := func(r *domain.RelationInfo) relationView {
		return relationView{
			Model:   r.RelatedModel.Label,
			ToMany:  r.ToMany,
			ToField: r.ToField,
			Through: r.HasThroughModel,
			Reverse: r.Reverse,
		}
	}
	for name, r := range info.ForwardRelations {
		view.Forward[name] = relation(r)
	}
	for name, r := range info.ReverseRelations {
		view.Reverse[name] = relation(r)
	}
	for name, e := range info.Embedded {
		view.Embedded[name] = embeddedView{Model: e.ModelType.Label, IsArray: e.IsArray}
	}
	return view
}

// sampleManager returns a meta manager holding every sample model.
func sampleManager() (*metamanager.MetaManager, error) {
	manager := metamanager.NewMetaManager().(*metamanager.MetaManager)
	if err := manager.Register(sample.All()...); err != nil {
		return nil, err
	}
	return manager, nil
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [label]",
		Short: "Print the field info of the sample models",
		Long:  "Print the field info summary of one sample model, or list the labels of every sample model.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := sampleManager()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for meta := range manager.Registry().All() {
					fmt.Fprintln(out, meta.Label)
				}
				return nil
			}

			meta, ok := manager.Registry().Get(args[0])
			if !ok {
				return fmt.Errorf("%w (known: %v)", domain.ErrUnknownModel{Label: args[0]}, labels(manager))
			}
			info, err := manager.FieldInfoForMeta(meta)
			if err != nil {
				return err
			}
			a.logger.Debug("inspected model")
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(describe(meta, info))
		},
	}
}

func labels(manager *metamanager.MetaManager) []string {
	var out []string
	for meta := range manager.Registry().All() {
		out = append(out, meta.Label)
	}
	return out
}
