package guidance

import "github.com/shahar-caura/lifeline/internal/triage"

type entry struct {
	Type  triage.EmergencyType
	Steps []Step
}

var catalog = []entry{
	{triage.CardiacArrest, cprSteps},
	{triage.SevereBleeding, bleedingSteps},
	{triage.Choking, chokingSteps},
	{triage.Burns, burnSteps},
	{triage.Fracture, fractureSteps},
	{triage.HeadInjury, headInjurySteps},
	{triage.BreathingDifficulty, breathingSteps},
	{triage.AllergicReaction, allergicSteps},
	{triage.Stroke, strokeSteps},
	{triage.Poisoning, poisoningSteps},
	{triage.GeneralEmergency, generalSteps},
}

var cprSteps = []Step{
	{
		Title:       "Check Responsiveness & Call for Help",
		Instruction: `Tap the person's shoulders and shout "Are you OK?" If no response, immediately call emergency services (911 or local number). Put your phone on speaker.`,
		Details: []string{
			"Ensure the scene is safe",
			"Check if person is breathing normally",
			"⚠️ IF YOU ARE ALONE: Call 911 first, put phone on speaker, then start CPR",
			"IF OTHERS PRESENT: Have someone else call while you start CPR",
		},
		Warning: "Do not delay calling emergency services. If alone, use speaker phone so you can continue CPR while talking to dispatcher",
	},
	{
		Title:       "Position the Person",
		Instruction: "Place the person on their back on a firm, flat surface. Kneel beside their chest.",
		Details: []string{
			"Remove any pillows from under head",
			"Ensure head, neck, and spine are aligned",
			"Clear area around the person",
		},
	},
	{
		Title:       "Hand Position for Compressions",
		Instruction: "Place the heel of one hand on the center of the chest (between nipples). Place your other hand on top and interlock fingers.",
		Details: []string{
			"Keep your arms straight",
			"Position your shoulders directly above your hands",
			"Keep fingers off the chest",
		},
		Warning: "Compressions must be on the breastbone, not the ribs",
	},
	{
		Title:       "Begin Chest Compressions",
		Instruction: `Push hard and fast in the center of the chest at least 2 inches deep. Do 30 compressions at a rate of 100-120 per minute (think of the beat of "Stayin' Alive").`,
		Details: []string{
			"Allow chest to fully recoil between compressions",
			"Minimize interruptions",
			"Count out loud: 1, 2, 3... up to 30",
		},
		Warning: "Compressions must be continuous and at correct depth",
	},
	{
		Title:       "Continue CPR Cycles",
		Instruction: "Continue cycles of 30 compressions. Do NOT stop until help arrives or person shows signs of life.",
		Details: []string{
			"Keep going - you cannot harm someone who needs CPR",
			"Switch with another person if available to avoid fatigue",
			"Continue until paramedics arrive",
		},
		Warning: "Do not stop CPR unless person starts breathing or moving",
	},
}

var bleedingSteps = []Step{
	{
		Title:       "Ensure Your Safety First",
		Instruction: "Protect yourself with gloves if available. If not available, use plastic bags, clean cloth, or multiple layers of fabric.",
		Details: []string{
			"Avoid direct contact with blood when possible",
			"Call emergency services immediately for severe bleeding",
		},
		Warning: "Your safety is important - protect yourself first",
	},
	{
		Title:       "Apply Direct Pressure",
		Instruction: "Place a clean cloth or gauze directly on the wound and press firmly with your hand. Do not peek to see if bleeding has stopped.",
		Details: []string{
			"Use both hands if needed",
			"Apply steady, firm pressure",
			"Do not remove the cloth even if blood soaks through",
		},
		Warning: "Maintain constant pressure - do not lift to check",
	},
	{
		Title:       "Add More Material if Needed",
		Instruction: "If blood soaks through, add more cloth or gauze on top. Do NOT remove the original cloth.",
		Details: []string{
			"Keep applying firm pressure",
			"Use heavier pressure if bleeding continues",
			"Elevate the wound above heart level if possible",
		},
		Warning: "Never remove blood-soaked material",
	},
	{
		Title:       "Secure the Dressing",
		Instruction: "Once bleeding slows, wrap the wound firmly with bandage or cloth. Keep the pressure on.",
		Details: []string{
			"Wrap snugly but not too tight",
			"Check that fingers/toes remain pink and warm",
			"Keep the person calm and still",
		},
		Warning: "Watch for signs of shock: pale skin, rapid breathing, weakness",
	},
	{
		Title:       "Monitor Until Help Arrives",
		Instruction: "Keep the person lying down. Watch for signs of shock. Reassure them. Do not give anything to eat or drink.",
		Details: []string{
			"Cover with blanket to keep warm",
			"Talk to them - keep them conscious if possible",
			"Recheck bandages regularly",
		},
		Warning: "If bleeding restarts, apply more pressure immediately",
	},
}

var chokingSteps = []Step{
	{
		Title:       "Assess the Situation",
		Instruction: `Ask "Are you choking?" If person can cough or speak, encourage coughing. If person cannot breathe, cough, or speak, begin abdominal thrusts immediately.`,
		Details: []string{
			"Universal sign of choking: hands clutching throat",
			"Person may be unable to speak",
			"Skin may turn blue",
		},
		Warning: "If person can breathe or cough, do NOT perform abdominal thrusts",
	},
	{
		Title:       "Call for Help",
		Instruction: "Have someone call emergency services. If alone, perform abdominal thrusts first, then call.",
		Details: []string{
			"⚠️ IF ALONE: Do 5 abdominal thrusts first, then call 911 on speaker and continue",
			"IF OTHERS PRESENT: Have them call immediately while you help",
			"Time is critical - act fast",
		},
		Warning: "If alone, do NOT delay action to make phone call first. Do thrusts, then call on speaker.",
	},
	{
		Title:       "Position for Abdominal Thrusts",
		Instruction: "Stand behind the person. Wrap your arms around their waist. Make a fist with one hand and place it just above the navel.",
		Details: []string{
			"Position your fist below the ribcage",
			"Grasp your fist with your other hand",
			"Person should be standing or sitting upright",
		},
		Warning: "Do not position fist over ribs or at the very bottom of breastbone",
	},
	{
		Title:       "Perform Abdominal Thrusts (Heimlich)",
		Instruction: "Give quick, upward thrusts into the abdomen. Perform 5 thrusts, then check if object is dislodged.",
		Details: []string{
			"Each thrust should be forceful",
			"Thrust inward and upward",
			"Repeat until object comes out or person becomes unconscious",
		},
		Warning: "Use forceful thrusts - this is a life-threatening situation",
	},
	{
		Title:       "If Person Becomes Unconscious",
		Instruction: "Lower person to ground. Begin CPR starting with chest compressions. Check mouth for object before giving breaths.",
		Details: []string{
			"Perform 30 chest compressions",
			"Look in mouth for object",
			"Remove only if clearly visible",
			"Continue CPR until help arrives",
		},
		Warning: "Do not perform finger sweeps blindly - can push object deeper",
	},
}

var burnSteps = []Step{
	{
		Title:       "Stop the Burning Process",
		Instruction: "Remove person from heat source. Remove any clothing or jewelry near burned area (unless stuck to skin).",
		Details: []string{
			"Stop, drop, and roll if clothing is on fire",
			"Turn off heat source if safe",
			"Remove jewelry before swelling starts",
		},
		Warning: "Do NOT remove anything stuck to the burn",
	},
	{
		Title:       "Cool the Burn",
		Instruction: "Run cool (not cold) water over burn for 10-20 minutes. Do not use ice.",
		Details: []string{
			"Use cool running water if possible",
			"Can also use cool, wet compresses",
			"For chemical burns, continue flushing for 20 minutes minimum",
		},
		Warning: "Never use ice, butter, or ointments on fresh burns",
	},
	{
		Title:       "Cover the Burn",
		Instruction: "Cover burn loosely with sterile, non-stick bandage or clean cloth.",
		Details: []string{
			"Do not apply tight bandages",
			"Use non-stick gauze if available",
			"Do not break any blisters",
		},
		Warning: "Do not use fluffy cotton or materials that can stick to burn",
	},
	{
		Title:       "Manage Pain",
		Instruction: "Elevate burned area above heart level if possible. Keep person warm with blanket on unburned areas.",
		Details: []string{
			"Elevation helps reduce swelling",
			"Watch for signs of shock",
			"Reassure the person",
		},
		Warning: "Seek immediate medical help for severe burns, burns on face/hands/feet/genitals, or burns larger than 3 inches",
	},
	{
		Title:       "Monitor and Wait for Help",
		Instruction: "Do not give anything to eat or drink. Watch for shock symptoms. Keep burn covered and clean.",
		Details: []string{
			"Signs of shock: pale, cold, clammy skin; rapid breathing",
			"Keep person calm",
			"Do not apply ointments or creams",
		},
		Warning: "All serious burns require professional medical evaluation",
	},
}

var breathingSteps = []Step{
	{
		Title:       "Call Emergency Services Immediately",
		Instruction: "Call 911 or your local emergency number. Breathing difficulty is serious.",
		Details: []string{
			`State clearly: "Medical emergency - difficulty breathing"`,
			"Provide your location",
			"Stay on the line",
		},
		Warning: "Difficulty breathing can become life-threatening quickly",
	},
	{
		Title:       "Help Person Into Comfortable Position",
		Instruction: "Help person sit upright or in a position that makes breathing easier. Do not lay them flat.",
		Details: []string{
			"Sitting upright usually helps most",
			"Leaning slightly forward can help",
			"Loosen any tight clothing",
		},
		Warning: "Do not force person to lie down",
	},
	{
		Title:       "Check for Medications",
		Instruction: "If person has asthma inhaler or prescribed breathing medication, help them use it.",
		Details: []string{
			"Follow instructions on medication",
			"Shake inhaler before use",
			"Help them take slow, deep breaths",
		},
		Warning: "Only use medications prescribed to that person",
	},
	{
		Title:       "Keep Person Calm",
		Instruction: "Speak calmly and reassuringly. Encourage slow, controlled breathing.",
		Details: []string{
			"Anxiety can worsen breathing difficulty",
			"Breathe with them to show rhythm",
			"Open windows for fresh air",
		},
		Warning: "If breathing stops, begin CPR immediately",
	},
	{
		Title:       "Monitor Until Help Arrives",
		Instruction: "Watch for changes in condition. Be ready to start CPR if person stops breathing.",
		Details: []string{
			"Watch skin color - blue tint is emergency",
			"Note if person becomes confused or drowsy",
			"Time how long between breaths",
		},
		Warning: "If person becomes unconscious, begin CPR",
	},
}

var fractureSteps = []Step{
	{
		Title:       "Do Not Move the Person",
		Instruction: "Unless in immediate danger, do not move the person. Call emergency services.",
		Details: []string{
			"Movement can worsen injury",
			"Spinal injuries require special care",
			"Wait for professional help",
		},
		Warning: "Do not try to realign the bone or push bone back in",
	},
	{
		Title:       "Immobilize the Injured Area",
		Instruction: "Support the injured area in the position found. Use padding and splints if available.",
		Details: []string{
			"Can use rolled newspapers, boards, or pillows as splints",
			"Pad the splint with soft material",
			"Secure above and below the fracture",
		},
		Warning: "Do not tie too tight - check circulation regularly",
	},
	{
		Title:       "Control Any Bleeding",
		Instruction: "If there is bleeding, apply gentle pressure with clean cloth around (not on) the fracture site.",
		Details: []string{
			"Do not press directly on protruding bone",
			"Apply pressure around the wound",
			"Cover open wounds with sterile dressing",
		},
		Warning: "Do not wash wound or try to push bone back",
	},
	{
		Title:       "Treat for Shock",
		Instruction: "Keep person lying down and warm. Elevate legs slightly if no spinal injury suspected.",
		Details: []string{
			"Cover with blanket",
			"Do not give food or drink",
			"Reassure the person",
		},
		Warning: "Watch for signs of shock: pale, cold, rapid breathing",
	},
}

var headInjurySteps = []Step{
	{
		Title:       "Call Emergency Services",
		Instruction: "Any significant head injury requires medical evaluation. Call 911.",
		Details: []string{
			"Head injuries can be serious even without visible damage",
			"Provide your exact location",
			"Describe what happened",
		},
		Warning: "Do not move person if neck injury is suspected",
	},
	{
		Title:       "Keep Person Still",
		Instruction: "Keep the person lying down with head and shoulders slightly elevated. Stabilize the head and neck.",
		Details: []string{
			"Do not move unless absolutely necessary",
			"Support head in position found",
			"Watch for vomiting",
		},
		Warning: "Assume neck injury until proven otherwise",
	},
	{
		Title:       "Control Any Bleeding",
		Instruction: "Apply gentle pressure with clean cloth. Do not press hard if skull fracture suspected.",
		Details: []string{
			"Do not remove objects stuck in wound",
			"Do not clean deep wounds",
			"Apply pressure around wound, not directly on it if skull fracture suspected",
		},
		Warning: "Do not apply direct pressure if you suspect skull fracture",
	},
	{
		Title:       "Monitor Consciousness",
		Instruction: "Keep person awake and talking if possible. Watch for changes in consciousness.",
		Details: []string{
			"Ask simple questions repeatedly",
			"Note any confusion or drowsiness",
			"Watch for seizures",
		},
		Warning: "Loss of consciousness, even briefly, is serious",
	},
}

var allergicSteps = []Step{
	{
		Title:       "Assess Severity",
		Instruction: "Look for signs of severe reaction: difficulty breathing, swelling of face/throat, rapid pulse, dizziness. If severe, call 911 immediately.",
		Details: []string{
			"Mild: rash, itching, hives",
			"Severe: breathing difficulty, swelling, confusion",
			"Anaphylaxis requires immediate emergency care",
		},
		Warning: "Severe allergic reactions can be life-threatening",
	},
	{
		Title:       "Use Epinephrine if Available",
		Instruction: "If person has epinephrine auto-injector (EpiPen) and reaction is severe, help them use it immediately.",
		Details: []string{
			"Inject into outer thigh muscle",
			"Hold for 3 seconds",
			"Can inject through clothing if needed",
			"Call 911 immediately after using",
		},
		Warning: "Always call emergency services after using epinephrine",
	},
	{
		Title:       "Position the Person",
		Instruction: "Have person lie flat with legs elevated (unless they're vomiting or having trouble breathing).",
		Details: []string{
			"If breathing difficulty: sit them upright",
			"If vomiting: turn on side",
			"If unconscious: recovery position",
		},
		Warning: "Position depends on symptoms",
	},
	{
		Title:       "Monitor and Reassure",
		Instruction: "Stay with person. Watch for worsening symptoms. Be ready to perform CPR if needed.",
		Details: []string{
			"Second reaction can occur",
			"Keep person calm",
			"Do not give anything by mouth if trouble breathing",
		},
		Warning: "Symptoms can worsen rapidly",
	},
}

var strokeSteps = []Step{
	{
		Title:       "Call 911 Immediately",
		Instruction: "Stroke is a medical emergency. Every second counts. Call emergency services immediately.",
		Details: []string{
			"Note the time symptoms started",
			"This information is critical for treatment",
			"Do not drive person to hospital yourself",
		},
		Warning: "Time is brain - immediate medical care is critical",
	},
	{
		Title:       "F.A.S.T. Assessment",
		Instruction: "Check for stroke signs: Face drooping, Arm weakness, Speech difficulty, Time to call 911.",
		Details: []string{
			"Face: Ask person to smile. Is one side drooping?",
			"Arms: Ask person to raise both arms. Does one drift down?",
			"Speech: Ask person to repeat a simple sentence. Is speech slurred?",
			"Time: Note time symptoms started",
		},
		Warning: "Do not wait to see if symptoms go away",
	},
	{
		Title:       "Keep Person Comfortable",
		Instruction: "Have person lie down with head and shoulders slightly raised. Loosen tight clothing.",
		Details: []string{
			"Turn head to side if vomiting",
			"Do not give anything to eat or drink",
			"Keep person calm",
		},
		Warning: "Do not give aspirin or other medications unless directed by emergency services",
	},
	{
		Title:       "Monitor Condition",
		Instruction: "Watch for changes. Be prepared to perform CPR if person stops breathing.",
		Details: []string{
			"Check breathing regularly",
			"Note any new symptoms",
			"Stay with person until help arrives",
		},
		Warning: "Condition can deteriorate rapidly",
	},
}

var poisoningSteps = []Step{
	{
		Title:       "Get Away From the Source",
		Instruction: "Move the person away from the poison if it is safe to do so. Remove any remaining substance from their mouth.",
		Details: []string{
			"Open windows if fumes or gas are involved",
			"Brush dry chemicals off skin and clothing",
			"Rinse skin or eyes with running water for 15-20 minutes",
		},
		Warning: "Do not enter an area with toxic fumes without protection",
	},
	{
		Title:       "Call Emergency Services or Poison Control",
		Instruction: "Call 911 if the person is drowsy, having trouble breathing, or seizing. Otherwise call your local poison control center.",
		Details: []string{
			"Keep the container, label, or pill bottle with you",
			"Say what was taken, how much, and when",
			"Give the person's approximate age and weight",
		},
		Warning: "Do not wait for symptoms to appear before calling",
	},
	{
		Title:       "Do Not Induce Vomiting",
		Instruction: "Do not make the person vomit or give them anything to eat or drink unless the dispatcher tells you to.",
		Details: []string{
			"Vomiting can cause more damage with corrosive substances",
			"If they vomit on their own, turn them on their side",
			"Keep a sample of vomit for paramedics if possible",
		},
		Warning: "Never give salt water, milk, or home remedies",
	},
	{
		Title:       "Monitor Until Help Arrives",
		Instruction: "Stay with the person and watch their breathing and alertness. Be ready to start CPR if they stop breathing.",
		Details: []string{
			"Place in recovery position if unconscious but breathing",
			"Note any changes in behavior or consciousness",
			"Keep the person calm and still",
		},
		Warning: "Symptoms of poisoning can be delayed and worsen quickly",
	},
}

var generalSteps = []Step{
	{
		Title:       "Assess the Situation",
		Instruction: "Ensure scene is safe. Check if person is responsive. Call emergency services if needed.",
		Details: []string{
			"Do not put yourself in danger",
			"Shout for help",
			"Call 911 if situation is serious",
		},
		Warning: "Your safety comes first",
	},
	{
		Title:       "Call for Help",
		Instruction: "Call emergency services and describe the situation clearly.",
		Details: []string{
			"State your location",
			"Describe what happened",
			"Follow dispatcher instructions",
			"Stay on the line",
		},
		Warning: "Do not hang up until told to do so",
	},
	{
		Title:       "Provide Comfort",
		Instruction: "Keep person calm and comfortable. Reassure them that help is coming.",
		Details: []string{
			"Keep person still unless in danger",
			"Cover with blanket if cold",
			"Talk reassuringly",
		},
		Warning: "Do not move person unless absolutely necessary",
	},
	{
		Title:       "Monitor Condition",
		Instruction: "Watch for changes in condition. Be ready to start CPR if needed.",
		Details: []string{
			"Check breathing regularly",
			"Watch for signs of shock",
			"Note any changes to tell paramedics",
		},
		Warning: "If condition worsens, update emergency services immediately",
	},
}
