package classify

import "regexp"

// noiseRegex matches sales, support, marketing, traffic and ecommerce roles.
var noiseRegex = regexp.MustCompile(`\b(vendas?|vendedora?|televendas|telemarketing|sales|comercial|representante|sdr|bdr|suporte|support|help ?desk|atendimento|customer (service|success)|sac|marketing|trafego|traffic|e-?commerce|loja|varejo|retail)\b`)

var engineeringRegex = regexp.MustCompile(`\b(engenheir[oa]s?|engenharia|engineers?|engineering)\b`)

// techRegex is the technical or academic context a description must show when
// the title itself does not carry the term.
var techRegex = regexp.MustCompile(`\b(phd|ph\.d|doutorado|doutor|pos-doutorado|postdoc|mestrado|mestre|masters?|graduacao|graduate|degree|bacharelado|bachelor|cientista|scientist|pesquisador[a]?|researcher|research|pesquisa|analista|analyst|python|sql|rstudio|tidyverse|bioconductor|julia|linux|bash|nextflow|snakemake|estatistica|statistics|statistical|biologia|biology|bioinformatica|bioinformatics|genomica|genomics|transcriptomica|transcriptomics|sequenciamento|sequencing|ngs|machine learning|data science|ciencia de dados|laboratorio|laboratory)\b`)
