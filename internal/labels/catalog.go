// Package labels maps cluster labels to display names and descriptions.
package labels

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kamusis/coursepath/internal/dataset"
)

// Info is the human-readable face of a cluster.
type Info struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Catalog resolves labels to Info. The zero value behaves like an empty
// catalog and falls back for every label.
type Catalog struct {
	entries map[dataset.Label]Info
}

// file is the on-disk shape of a labels YAML file:
//
//	clusters:
//	  0:
//	    name: ...
//	    description: ...
type file struct {
	Clusters map[int]Info `yaml:"clusters"`
}

var builtin = map[dataset.Label]Info{
	0: {
		Name:        "AI研究者・ハッカー (理論×応用)",
		Description: "高度な数理モデルと最新の生成AI技術の両方を深く探究したい、研究志向のあなたにおすすめです。",
	},
	1: {
		Name:        "データサイエンス基礎 (理論×基礎)",
		Description: "データサイエンスや数学的背景をしっかり固めたい、理論重視のあなたにおすすめです。",
	},
	2: {
		Name:        "ITエンジニア基礎 (Web×基礎)",
		Description: "プログラミングやWebの仕組みなど、ITの基礎体力をつけたいあなたにおすすめです。",
	},
	3: {
		Name:        "スタンダード・総合 (バランス型)",
		Description: "まずは偏りなく、AI・情報の基礎から応用までをバランスよく学びたいあなたにおすすめです。",
	},
	4: {
		Name:        "AIアプリクリエイター (Web×応用)",
		Description: "理屈よりもまずは動くものを！最新の生成AIやWeb技術を使ってアプリを作りたいあなたにおすすめです。",
	},
}

// Default returns the built-in catalog for clusters 0–4.
func Default() *Catalog {
	c := &Catalog{entries: make(map[dataset.Label]Info, len(builtin))}
	for l, info := range builtin {
		c.entries[l] = info
	}
	return c
}

// Load returns the built-in catalog overlaid with the entries in path.
// An empty path returns Default(). Fields left blank in the file keep the
// built-in value.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read labels %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	for n, info := range f.Clusters {
		l := dataset.Label(n)
		cur := c.entries[l]
		if info.Name != "" {
			cur.Name = info.Name
		}
		if info.Description != "" {
			cur.Description = info.Description
		}
		c.entries[l] = cur
	}
	return c, nil
}

// Lookup never fails: labels without a name get a generic one, keeping any
// description supplied for them.
func (c *Catalog) Lookup(l dataset.Label) Info {
	var info Info
	if c != nil {
		info = c.entries[l]
	}
	if info.Name == "" {
		info.Name = fmt.Sprintf("Cluster %d", int(l))
	}
	return info
}

// Has reports whether l has an explicit entry.
func (c *Catalog) Has(l dataset.Label) bool {
	if c == nil {
		return false
	}
	info, ok := c.entries[l]
	return ok && info.Name != ""
}

// Labels returns the labels with entries, ascending.
func (c *Catalog) Labels() []dataset.Label {
	if c == nil {
		return nil
	}
	out := make([]dataset.Label, 0, len(c.entries))
	for l := range c.entries {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Marshal renders the catalog in the labels file format.
func (c *Catalog) Marshal() ([]byte, error) {
	f := file{Clusters: make(map[int]Info)}
	for _, l := range c.Labels() {
		f.Clusters[int(l)] = c.entries[l]
	}
	return yaml.Marshal(f)
}
