// Package access decides which features a session may use.
package access

import "resumabuilder/internal/domain"

type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

// TierFromPlan maps a stored plan to a tier. Anything unrecognized is free.
func TierFromPlan(p domain.Plan) Tier {
	if p == domain.PlanPaid {
		return TierPaid
	}
	return TierFree
}

type Feature string

const (
	FeatureResumeBuilder       Feature = "resume_builder"
	FeatureBasicTemplates      Feature = "basic_templates"
	FeatureATSCheck            Feature = "ats_check"
	FeatureTextExtraction      Feature = "text_extraction"
	FeaturePDFExport           Feature = "pdf_export"
	FeatureAIGeneration        Feature = "ai_generation"
	FeatureCoverLetter         Feature = "cover_letter"
	FeaturePremiumTemplates    Feature = "premium_templates"
	FeatureWatermarkFreeExport Feature = "watermark_free_export"
)

// premium features need the paid tier; every other known feature is open
// to all tiers.
var features = map[Feature]bool{
	FeatureResumeBuilder:       false,
	FeatureBasicTemplates:      false,
	FeatureATSCheck:            false,
	FeatureTextExtraction:      false,
	FeaturePDFExport:           false,
	FeatureAIGeneration:        true,
	FeatureCoverLetter:         true,
	FeaturePremiumTemplates:    true,
	FeatureWatermarkFreeExport: true,
}

// CanAccess reports whether tier may use feature. Unknown features are
// denied.
func CanAccess(feature Feature, tier Tier) bool {
	premium, known := features[feature]
	if !known {
		return false
	}
	return !premium || tier == TierPaid
}

// TemplateFeature is the feature needed to use a template.
func TemplateFeature(t domain.Template) Feature {
	if t.IsPremium {
		return FeaturePremiumTemplates
	}
	return FeatureBasicTemplates
}
