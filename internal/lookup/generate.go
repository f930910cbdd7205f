// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pdiddy/deepgene/internal/llm"
	"github.com/pdiddy/deepgene/pkg/types"
)

// Query identifies the variant being researched.
type Query struct {
	RSID           string
	Annotation     string
	PositionalGene string

	// GeneContext is optional MyGene.info context from genedata.FormatForLLM.
	GeneContext string
}

var geneInfoPromptTmpl = template.Must(template.New("geneinfo").Parse(`Analyze the given gene and rsID (reference SNP identifier).

CRITICAL INSTRUCTIONS:
- Even if the specific rsID is unknown or poorly documented, you MUST provide comprehensive information about the gene itself
- Include the gene's biological functions, associated diseases, and other well-known SNPs on this gene
- If you don't have information about the specific rsID, focus on the gene and list other documented SNPs
- ALWAYS provide gene function and disease information if the gene is known
- Include related SNPs on the same gene with their phenotypes

RESPONSE REQUIREMENTS:
1. function: List the gene's biological functions (REQUIRED - never leave empty for known genes)
2. diseases: List diseases/conditions associated with the gene (provide if known)
3. snps: List other known SNPs on this gene with their genes and phenotypes (include the queried rsID if documented, plus other major SNPs on the gene)
4. literature: ONLY include entries with valid PubMed URLs or DOI URLs. Each entry has functional_relevance, mutants (mutations discussed in the paper) and url. Return an empty list if there are no valid references.

Remember: Unknown rsID is not the same as unknown gene. Provide detailed gene-level information even when the specific rsID lacks documentation.

rsid: {{.RSID}}
annotation: {{.Annotation}}
positional_gene: {{.PositionalGene}}
{{- if .GeneContext}}

gene_database_info (factual data, use as context):
{{.GeneContext}}
{{- else}}

gene_database_info: none available, answer from your own knowledge.
{{- end}}
`))

var stringList = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}

// geneInfoSchema describes the generator's JSON output. SNPs are a list of
// entries because response schemas cannot express maps with free keys.
var geneInfoSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"function": stringList,
		"diseases": stringList,
		"snps": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"rsid":       {Type: genai.TypeString},
					"genes":      stringList,
					"phenotypes": stringList,
				},
				Required: []string{"rsid", "genes", "phenotypes"},
			},
		},
		"literature": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"functional_relevance": {Type: genai.TypeString},
					"mutants":              stringList,
					"url":                  {Type: genai.TypeString},
				},
				Required: []string{"functional_relevance", "mutants", "url"},
			},
		},
	},
	Required: []string{"function", "diseases", "snps", "literature"},
}

// Generator asks the language model for gene information.
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

// NewGenerator returns a Generator backed by client.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// generatedInfo is the wire form of the model response.
type generatedInfo struct {
	Function   []string          `json:"function"`
	Diseases   []string          `json:"diseases"`
	SNPs       json.RawMessage   `json:"snps"`
	Literature []json.RawMessage `json:"literature"`
}

type snpEntry struct {
	RSID       string   `json:"rsid"`
	Genes      []string `json:"genes"`
	Phenotypes []string `json:"phenotypes"`
}

// Generate returns the model's gene information for q. Citations whose URL is
// not an absolute http(s) URL, or which cannot be decoded, are dropped.
func (g *Generator) Generate(ctx context.Context, q Query) (types.GeneInfo, error) {
	var buf bytes.Buffer
	if err := geneInfoPromptTmpl.Execute(&buf, q); err != nil {
		return types.GeneInfo{}, fmt.Errorf("rendering prompt: %w", err)
	}

	out, err := g.client.Generate(ctx, llm.Request{Prompt: buf.String(), Schema: geneInfoSchema})
	if err != nil {
		return types.GeneInfo{}, fmt.Errorf("generating gene information: %w", err)
	}

	info, err := g.parse(llm.StripCodeFence(out))
	if err != nil {
		return types.GeneInfo{}, fmt.Errorf("parsing gene information: %w", err)
	}
	return info, nil
}

func (g *Generator) parse(out string) (types.GeneInfo, error) {
	var raw generatedInfo
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return types.GeneInfo{}, err
	}

	info := types.GeneInfo{
		Function:   nonNil(raw.Function),
		Diseases:   nonNil(raw.Diseases),
		SNPs:       map[string]types.SNPInfo{},
		Literature: []types.Citation{},
	}

	snps, err := parseSNPs(raw.SNPs)
	if err != nil {
		return types.GeneInfo{}, fmt.Errorf("snps: %w", err)
	}
	for k, v := range snps {
		info.SNPs[k] = v
	}

	for i, item := range raw.Literature {
		var c types.Citation
		if err := json.Unmarshal(item, &c); err != nil {
			g.logger.Warn("dropping undecodable citation", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := c.Validate(); err != nil {
			g.logger.Warn("dropping citation with invalid url", zap.Int("index", i), zap.Error(err))
			continue
		}
		c.Mentions = nonNil(c.Mentions)
		info.Literature = append(info.Literature, c)
	}
	return info, nil
}

// parseSNPs accepts the schema's list form and the {"rsID": {...}} map form.
func parseSNPs(raw json.RawMessage) (map[string]types.SNPInfo, error) {
	out := map[string]types.SNPInfo{}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return out, nil
	}

	var list []snpEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, e := range list {
			if e.RSID == "" {
				continue
			}
			out[e.RSID] = types.SNPInfo{Genes: nonNil(e.Genes), Phenotypes: nonNil(e.Phenotypes)}
		}
		return out, nil
	}

	var m map[string]types.SNPInfo
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		out[k] = types.SNPInfo{Genes: nonNil(v.Genes), Phenotypes: nonNil(v.Phenotypes)}
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
