package model

// CatalogSubject describes one subject in the static study catalog,
// with the modules and subtopics the question bank filters on.
type CatalogSubject struct {
	Name      string   `json:"name"`
	Modules   []string `json:"modules"`
	Subtopics []string `json:"subtopics"`
}

// Static catalog served to the question bank browser. Mirrors the NEET-PG
// subject split used when the corpus was assembled.
var (
	CatalogSubjects = []CatalogSubject{
		{Name: "Anatomy", Modules: []string{"Head & Neck", "Thorax", "Abdomen"}, Subtopics: []string{"Skull", "Cervical Plexus", "Lungs", "Heart", "Liver", "Kidneys"}},
		{Name: "Physiology", Modules: []string{"Cardiovascular", "Respiratory", "Renal"}, Subtopics: []string{"Cardiac Cycle", "ECG", "Blood Pressure", "Lung Volumes", "GFR"}},
		{Name: "Pharmacology", Modules: []string{"CNS", "CVS", "Antimicrobials"}, Subtopics: []string{"Anti-epileptics", "Opioids", "ACE Inhibitors", "Beta Blockers", "Penicillins", "Aminoglycosides"}},
		{Name: "Biochemistry", Modules: []string{"Metabolism", "Proteins"}, Subtopics: []string{"Krebs Cycle", "Glycolysis", "Amino Acids"}},
		{Name: "Pathology", Modules: []string{"General Pathology", "Systemic"}, Subtopics: []string{"Inflammation", "Cell Injury", "Hematology"}},
		{Name: "Microbiology", Modules: []string{"Bacteriology", "Virology"}, Subtopics: []string{"Gram Positive", "Gram Negative", "HIV"}},
		{Name: "Medicine", Modules: []string{"Cardiology", "Neurology"}, Subtopics: []string{"MI", "Arrhythmias", "Stroke"}},
		{Name: "Surgery", Modules: []string{"General Surgery", "Urology"}, Subtopics: []string{"Appendicitis", "Hernia", "Prostate Cancer"}},
		{Name: "Obstetrics & Gyn", Modules: []string{"Obstetrics", "Gynecology"}, Subtopics: []string{"Labor", "PPH", "Contraception"}},
		{Name: "Pediatrics", Modules: []string{"Neonatology", "Development"}, Subtopics: []string{"Jaundice", "RDS", "Immunization"}},
		{Name: "Ophthalmology", Modules: []string{"Anterior Segment", "Posterior Segment"}, Subtopics: []string{"Cataract", "Glaucoma", "Retina"}},
		{Name: "ENT", Modules: []string{"Ear", "Nose", "Throat"}, Subtopics: []string{"Otitis Media", "Vertigo", "Tonsillitis"}},
		{Name: "Dermatology", Modules: []string{"Dermatitis", "Infections"}, Subtopics: []string{"Eczema", "Psoriasis", "Fungal"}},
		{Name: "Psychiatry", Modules: []string{"Psychosis", "Mood Disorders"}, Subtopics: []string{"Schizophrenia", "Bipolar", "Anxiety"}},
		{Name: "Orthopedics", Modules: []string{"Trauma", "Spine"}, Subtopics: []string{"Fractures", "Dislocations", "Scoliosis"}},
		{Name: "Radiology", Modules: []string{"CNS", "Chest"}, Subtopics: []string{"CT Head", "MRI Spine", "CXR Interpretation"}},
		{Name: "Anesthesia", Modules: []string{"General Anesthesia", "Regional"}, Subtopics: []string{"Airway", "Monitoring", "Spinal Block"}},
	}

	DifficultyOptions     = []string{"Easy", "Medium", "Hard"}
	CognitiveSkillOptions = []string{"Pure Recall", "Diagnostic Reasoning", "Clinical/Image Based"}
	QuestionSources       = []string{"Marrow", "Prepladder", "Cerebellum", "EPW Dams"}
)
