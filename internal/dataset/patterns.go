package dataset

import "genomevo/internal/genome"

// ClinicalPatterns returns the catalog of known clinical mutation motifs.
func ClinicalPatterns() genome.PatternSet {
	set, err := genome.NewPatternSet(
		genome.KnownPattern{
			Name:                "EGFR_L858R",
			Sequence:            genome.MustParse("110100110101100"),
			Kind:                "oncogenic",
			Condition:           "lung carcinoma",
			PopulationFrequency: 0.15,
			Treatment:           "osimertinib, gefitinib",
			TreatmentResponse:   0.68,
		},
		genome.KnownPattern{
			Name:                "TP53_R273H",
			Sequence:            genome.MustParse("011010011010110"),
			Kind:                "tumor suppressor",
			Condition:           "multiple cancer types",
			PopulationFrequency: 0.50,
			Treatment:           "TP53-targeted therapy",
			TreatmentResponse:   0.42,
		},
		genome.KnownPattern{
			Name:                "KRAS_G12C",
			Sequence:            genome.MustParse("100111001011001"),
			Kind:                "oncogenic",
			Condition:           "colorectal and lung cancer",
			PopulationFrequency: 0.13,
			Treatment:           "sotorasib, adagrasib",
			TreatmentResponse:   0.55,
		},
		genome.KnownPattern{
			Name:                "CYP2D6_variant",
			Sequence:            genome.MustParse("010101101001010"),
			Kind:                "pharmacogenomic",
			Condition:           "n/a",
			PopulationFrequency: 0.25,
			Treatment:           "antidepressant and opioid dose adjustment",
			TreatmentResponse:   0.85,
		},
		genome.KnownPattern{
			Name:                "BRCA1_mutation",
			Sequence:            genome.MustParse("101011001101001"),
			Kind:                "hereditary",
			Condition:           "breast and ovarian cancer",
			PopulationFrequency: 0.002,
			Treatment:           "PARP inhibitors",
			TreatmentResponse:   0.72,
		},
	)
	if err != nil {
		panic(err)
	}
	return set
}
