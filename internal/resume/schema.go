package resume

import "github.com/spigell/blacktable/internal/ai/schema"

func timelineField() schema.Field {
	return schema.Object("timeline",
		schema.String("start").Desc(`Readable date such as "October 2023"`),
		schema.String("end").Desc(`Readable date or "Present"`),
	)
}

// Schema is the shape requested from the model when parsing a resume.
var Schema = schema.New("CandidateProfile",
	schema.Object("about",
		schema.String("name"),
		schema.String("email"),
		schema.String("mobile"),
		schema.String("linkedin"),
		schema.String("summary").Desc("Professional summary"),
		schema.Integer("total_work_experience").Range(0, 80).Desc("Total work experience in whole years"),
	).Req(),
	schema.Array("work_experience", schema.Object("job",
		schema.Integer("id").Desc("Sequential id starting from 1"),
		schema.String("title"),
		schema.String("company"),
		schema.String("type").Desc("Employment type, e.g. full-time, contract, internship"),
		schema.Object("location", schema.String("city"), schema.String("country")),
		timelineField(),
		schema.Strings("skills"),
		schema.Strings("description").Desc("Responsibilities and achievements, one per item"),
	)),
	schema.Array("projects", schema.Object("project",
		schema.Integer("id").Desc("Sequential id starting from 1"),
		schema.String("title"),
		schema.String("client"),
		schema.String("company"),
		schema.String("role"),
		timelineField(),
		schema.Strings("skills"),
		schema.Strings("description"),
	)),
	schema.Array("education", schema.Object("education",
		schema.Integer("id").Desc("Sequential id starting from 1"),
		schema.String("college"),
		schema.String("degree"),
		schema.String("course"),
		timelineField(),
		schema.Number("cgpa"),
	)),
	schema.Strings("skills").Desc("Every skill mentioned anywhere in the resume"),
	schema.Strings("achievements"),
	schema.Strings("publications"),
	schema.Array("weblinks", schema.Object("weblink",
		schema.String("platform"),
		schema.String("link"),
	)),
	schema.String("looking_for"),
	schema.String("certificates"),
	schema.String("awards"),
	schema.String("hobbies"),
	schema.String("extracurriculars"),
)
