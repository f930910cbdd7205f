// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// GeneData holds deterministic gene facts from MyGene.info. Every field other
// than GeneSymbol is optional because the upstream record omits fields freely.
type GeneData struct {
	GeneSymbol      string              `json:"gene_symbol" yaml:"gene_symbol"`
	GeneName        string              `json:"gene_name,omitempty" yaml:"gene_name,omitempty"`
	Summary         string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	GOTerms         map[string][]string `json:"go_terms,omitempty" yaml:"go_terms,omitempty"`
	Pathways        []string            `json:"pathways,omitempty" yaml:"pathways,omitempty"`
	MIMDiseases     []string            `json:"mim_diseases,omitempty" yaml:"mim_diseases,omitempty"`
	GeneRIF         []string            `json:"generif,omitempty" yaml:"generif,omitempty"`
	EntrezGeneID    int64               `json:"entrezgene_id,omitempty" yaml:"entrezgene_id,omitempty"`
	EnsemblID       string              `json:"ensembl_id,omitempty" yaml:"ensembl_id,omitempty"`
	GenomicLocation string              `json:"genomic_location,omitempty" yaml:"genomic_location,omitempty"`

	// Source is always "mygene.info".
	Source string `json:"source" yaml:"source"`
}

// GeneDataSource is the Source value for records fetched from MyGene.info.
const GeneDataSource = "mygene.info"

// SNPInfo describes one known SNP on the gene.
type SNPInfo struct {
	Genes      []string `json:"genes" yaml:"genes"`
	Phenotypes []string `json:"phenotypes" yaml:"phenotypes"`
}

// GeneInfo is the structured output of the gene-information model.
type GeneInfo struct {
	Function   []string           `json:"function" yaml:"function"`
	Diseases   []string           `json:"diseases" yaml:"diseases"`
	SNPs       map[string]SNPInfo `json:"snps" yaml:"snps"`
	Literature []Citation         `json:"literature" yaml:"literature"`
}

// Dossier is the assembled result of a variant lookup: the query, the
// database record (if any), and the AI narrative with evidence-backed
// literature.
type Dossier struct {
	RSID           string    `json:"rsid" yaml:"rsid"`
	Annotation     string    `json:"annotation" yaml:"annotation"`
	PositionalGene string    `json:"positional_gene" yaml:"positional_gene"`
	GeneData       *GeneData `json:"gene_data,omitempty" yaml:"gene_data,omitempty"`
	GeneInfo       `yaml:",inline"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}
